package user

import (
	"time"

	"github.com/userdeck/userdeck/internal/domain"
)

// TimestampFormat is the human-readable layout applied to created_at and
// updated_at in the external representation.
const TimestampFormat = "Jan 02, 2006 - 03:04 pm"

// UserResource is the external representation of a user. It is an explicit
// allow-list: internal fields such as the password hash never appear here.
// EmailVerifiedAt passes through unformatted; only the two bookkeeping
// timestamps get the display format, and nil stays null.
type UserResource struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Avatar          *string    `json:"avatar"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Role            string     `json:"role"`
	CreatedAt       *string    `json:"created_at"`
	UpdatedAt       *string    `json:"updated_at"`
}

// NewUserResource maps a domain user to its external representation.
func NewUserResource(u domain.User) UserResource {
	return UserResource{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Avatar:          u.Avatar,
		EmailVerifiedAt: u.EmailVerifiedAt,
		Role:            u.Role,
		CreatedAt:       formatTimestamp(u.CreatedAt),
		UpdatedAt:       formatTimestamp(u.UpdatedAt),
	}
}

// NewUserResourcePage maps a page of domain users to external resources,
// keeping the echoed query parameters and pagination metadata intact.
func NewUserResourcePage(p *domain.Page[domain.User]) *domain.Page[UserResource] {
	return domain.MapPage(p, NewUserResource)
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(TimestampFormat)
	return &s
}
