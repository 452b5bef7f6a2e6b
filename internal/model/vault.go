package model

import "time"

// VaultEntry represents a stored password record. Password holds the cipher
// envelope, never the plaintext.
type VaultEntry struct {
	ID        string
	UserID    string
	Title     string
	Username  string
	Password  string
	CreatedAt time.Time
}

// VaultEntryRequest represents a request to save a password.
type VaultEntryRequest struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// VaultDeleteRequest identifies a password record by id and title.
type VaultDeleteRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VaultItem is a decrypted password record. When the record cannot be
// decrypted, Password is empty and Error explains why.
type VaultItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	Error     string    `json:"error,omitempty"`
}

// VaultCreatedResponse is returned after a password is saved.
type VaultCreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
