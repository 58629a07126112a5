package domain

import (
	"errors"
	"strings"
)

// Demo account seeded for local use
const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// User is one entry of the users map. The password is kept as entered.
type User struct {
	Password string `json:"password"`
}

// Users maps usernames to their stored credentials
type Users map[string]User

// Login and registration errors. Messages are shown to the user as-is.
var (
	ErrUsernameRequired   = errors.New("Enter a username")
	ErrPasswordRequired   = errors.New("Enter a password")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
)

// Credentials is a login or registration attempt. Confirm is only read when registering.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm,omitempty"`
}

// Normalize trims surrounding whitespace from every field
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Username: strings.TrimSpace(c.Username),
		Password: strings.TrimSpace(c.Password),
		Confirm:  strings.TrimSpace(c.Confirm),
	}
}

// ValidateRegistration checks a normalized registration attempt against existing users
func ValidateRegistration(c Credentials, users Users) error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if len(c.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if c.Password != c.Confirm {
		return ErrPasswordMismatch
	}
	if _, exists := users[c.Username]; exists {
		return ErrUsernameTaken
	}
	return nil
}

// CheckLogin checks a normalized login attempt against existing users
func CheckLogin(c Credentials, users Users) error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	user, ok := users[c.Username]
	if !ok || user.Password != c.Password {
		return ErrInvalidCredentials
	}
	return nil
}
