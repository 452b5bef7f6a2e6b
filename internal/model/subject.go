package model

import "time"

// Subject groups notes under a title unique per owner.
type Subject struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubjectRequest represents a create or update request for a subject.
type SubjectRequest struct {
	SubjectID string `json:"subjectId"`
	Title     string `json:"title"`
}

// SubjectResponse pairs a message with the affected subject.
type SubjectResponse struct {
	Message string   `json:"message"`
	Subject *Subject `json:"subject"`
}
