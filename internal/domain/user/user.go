package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized is the wire shape for user listings and mutations. It carries the
// same fields the login response embeds, nothing more.
type Sanitized struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Active bool     `json:"active"`
	Roles  []string `json:"roles"`
}

func (u User) Sanitize() Sanitized {
	roles := u.Roles

	if roles == nil {
		roles = []string{}
	}

	return Sanitized{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Active: u.Active,
		Roles:  roles,
	}
}

type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=120"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	RoleIDs  []int64 `json:"roles" binding:"omitempty,dive,min=1"`
}

// Password is optional on update; the stored hash is only replaced when a new
// one is provided. The role set is replaced wholesale, not diffed.
type UpdateUserRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=120"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"omitempty,min=8"`
	RoleIDs  []int64 `json:"roles" binding:"omitempty,dive,min=1"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
