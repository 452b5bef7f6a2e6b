package model

import "time"

// User represents a user in the database. PasswordHash is empty for accounts
// created through an identity provider.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest represents a user login request.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityLoginRequest carries an identity-provider credential (e.g. a Google ID token).
type IdentityLoginRequest struct {
	Credential string `json:"credential"`
}

// UpdateProfileRequest represents a profile edit.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity is a validated identity returned by an identity provider.
type Identity struct {
	Email string
	Name  string
}

// AuthResponse is returned after a successful signin.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageResponse is the body of mutations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse pairs a message with the affected user.
type ProfileResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
