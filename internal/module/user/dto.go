package user

import (
	"strings"

	"github.com/userdeck/userdeck/internal/domain"
)

// CreateUserRequest represents the input for creating a new user.
type CreateUserRequest struct {
	Name                 string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email                string `json:"email" form:"email" binding:"required,email"`
	Password             string `json:"password" form:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"required,eqfield=Password"`
	Role                 string `json:"role" form:"role" binding:"required,oneof=admin manager user"`
	Avatar               string `json:"avatar" form:"avatar" binding:"omitempty,url,max=512"`
}

// Input converts the request to a domain input.
func (r CreateUserRequest) Input() domain.UserInput {
	return domain.UserInput{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Role:     r.Role,
		Avatar:   strings.TrimSpace(r.Avatar),
	}
}

// UpdateUserRequest represents the input for updating an existing user.
// Password is optional: leaving it empty keeps the stored hash unchanged.
type UpdateUserRequest struct {
	Name                 string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email                string `json:"email" form:"email" binding:"required,email"`
	Password             string `json:"password" form:"password" binding:"omitempty,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"eqfield=Password"`
	Role                 string `json:"role" form:"role" binding:"required,oneof=admin manager user"`
	Avatar               string `json:"avatar" form:"avatar" binding:"omitempty,url,max=512"`
}

// Input converts the request to a domain input.
func (r UpdateUserRequest) Input() domain.UserInput {
	return domain.UserInput{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Role:     r.Role,
		Avatar:   strings.TrimSpace(r.Avatar),
	}
}

// BulkDeleteRequest carries the identifier set of a bulk delete.
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" form:"ids" binding:"required,min=1,dive,min=1"`
}
