package domain

import (
	"context"
	"time"
)

// User roles. The role column is a plain string so the table stays portable
// across sqlite and postgres.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// Roles lists the valid user roles in display order.
var Roles = []string{RoleAdmin, RoleManager, RoleUser}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// User represents a user in the system.
type User struct {
	BaseModel
	Name            string     `gorm:"size:100;not null" json:"name"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Avatar          *string    `gorm:"size:512" json:"avatar"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Role            string     `gorm:"size:20;not null;default:user" json:"role"`
	PasswordHash    string     `gorm:"size:255" json:"-"`
}

// UserInput carries the validated fields of a create or update request.
// Password is empty on update when the stored hash should be left unchanged.
// Avatar is an optional URL; empty means no avatar.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Avatar   string
}

// UserRepository defines the data access interface for users. Count and List
// are the two halves a paginator needs: Count is the total after the search
// filter, before slicing; List returns one offset/limit window of the
// filtered, sorted records.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context, search string) (int64, error)
	List(ctx context.Context, state QueryState, offset, limit int) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	// DeleteByIDs removes every listed user in one transaction. If any id
	// does not reference an existing user the whole batch is rejected and
	// nothing is deleted.
	DeleteByIDs(ctx context.Context, ids []uint) error
}

// UserService defines the business logic interface for users.
//
// ListUsers takes the base path used when building pagination link URLs; the
// link builder is injected explicitly instead of read from global routing
// state so callers on different surfaces get correct links.
type UserService interface {
	CreateUser(ctx context.Context, input UserInput) (*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	ListUsers(ctx context.Context, state QueryState, basePath string) (*Page[User], error)
	UpdateUser(ctx context.Context, id uint, input UserInput) (*User, error)
	DeleteUser(ctx context.Context, id uint) error
	BulkDeleteUsers(ctx context.Context, ids []uint) error
}
