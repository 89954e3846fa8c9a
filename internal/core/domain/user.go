package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyLogins = errors.New("too many login attempts")

// User models a registered account. PasswordHash is the bcrypt hash set once
// at signup; it never leaves the process in responses or logs.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	PostIDs      []string  `json:"posts,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnsPost reports whether the user's owned-post list references id.
func (u *User) OwnsPost(id string) bool {
	for _, p := range u.PostIDs {
		if p == id {
			return true
		}
	}
	return false
}

// RemovePost drops id from the user's owned-post list, preserving order.
func (u *User) RemovePost(id string) {
	kept := u.PostIDs[:0]
	for _, p := range u.PostIDs {
		if p != id {
			kept = append(kept, p)
		}
	}
	u.PostIDs = kept
}
