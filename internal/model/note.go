package model

import "time"

// Note represents a note in the database. SubjectID is empty for notes that
// are not grouped under a subject.
type Note struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	SubjectID   string     `json:"subjectId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ShortNote   string     `json:"shortNote"`
	IsShared    bool       `json:"isShared"`
	ShareSlug   string     `json:"shareSlug,omitempty"`
	ExpiryTime  *time.Time `json:"expiryTime,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ShareExpired reports whether the note's share window has elapsed at now.
func (n *Note) ShareExpired(now time.Time) bool {
	return n.ExpiryTime == nil || !now.Before(*n.ExpiryTime)
}

// NoteRequest represents a create or update request for a note.
type NoteRequest struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subjectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ShortNote   string `json:"shortNote"`
}

// NoteIDRequest identifies a note by id.
type NoteIDRequest struct {
	ID string `json:"id"`
}

// ShareLink is returned after a note is shared.
type ShareLink struct {
	Link       string    `json:"link"`
	ExpiryTime time.Time `json:"expiryTime"`
}

// SharedNote is the public, read-only projection of a shared note. It never
// carries owner data.
type SharedNote struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ShortNote   string    `json:"shortNote"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiryTime  time.Time `json:"expiryTime"`
}

// NoteResponse pairs a message with the affected note.
type NoteResponse struct {
	Message string `json:"message"`
	Note    *Note  `json:"note"`
}
