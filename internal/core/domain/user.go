package domain

import (
	"errors"
	"time"
)

// Role values a user can hold. New accounts always start as RoleUser;
// RoleAdmin is assigned out of band.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var ErrUserExists = errors.New("username or email already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailInUse = errors.New("email is already in use")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User models an account in the directory.
type User struct {
	ID                        string    `json:"id"`
	Username                  string    `json:"username"`
	Email                     string    `json:"email"`
	PasswordHash              string    `json:"-"`
	FirstName                 string    `json:"first_name"`
	LastName                  string    `json:"last_name"`
	Phone                     string    `json:"phone,omitempty"`
	ReserveServiceDescription string    `json:"reserve_service_description,omitempty"`
	Role                      string    `json:"role"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// Identity is the authenticated actor attached to a request context by the
// identity middleware. It is rebuilt from canonical account data on every
// request (the token itself carries only id + username), so a role change
// takes effect on the next request rather than on the next token refresh.
type Identity struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FirstName                 string `json:"first_name"`
	LastName                  string `json:"last_name"`
	Phone                     string `json:"phone,omitempty"`
	ReserveServiceDescription string `json:"reserve_service_description,omitempty"`
	Role                      string `json:"role"`
}

// IdentityOf projects a user onto the request-scoped identity shape.
func IdentityOf(u *User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:                        u.ID,
		Username:                  u.Username,
		Email:                     u.Email,
		FirstName:                 u.FirstName,
		LastName:                  u.LastName,
		Phone:                     u.Phone,
		ReserveServiceDescription: u.ReserveServiceDescription,
		Role:                      u.Role,
	}
}
