package models

import (
	"strings"
	"time"
)

// Validate checks the user's fields.
func (u *User) Validate() error {
	return validateStruct(u)
}

// BeforeCreate normalizes the user before it is stored.
func (u *User) BeforeCreate() {
	u.Username = strings.TrimSpace(u.Username)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
}

// FullName returns "First Last", or the username when no name is set.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
