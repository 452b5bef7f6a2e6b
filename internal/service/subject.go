package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository"
)

// SubjectService handles subject business logic.
type SubjectService struct {
	subjects SubjectStore
	notes    NoteStore
	now      func() time.Time
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjects SubjectStore, notes NoteStore) *SubjectService {
	return &SubjectService{
		subjects: subjects,
		notes:    notes,
		now:      utcNow,
	}
}

// Create adds a subject owned by userID. Titles are unique per owner.
func (s *SubjectService) Create(ctx context.Context, userID string, req model.SubjectRequest) (*model.Subject, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := s.now()
	sub := &model.Subject{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.subjects.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubject) {
			return nil, ErrSubjectExists
		}
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Update renames a subject owned by userID.
func (s *SubjectService) Update(ctx context.Context, userID string, req model.SubjectRequest) (*model.Subject, error) {
	if req.SubjectID == "" {
		return nil, ErrSubjectIDRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	sub, err := s.owned(ctx, userID, req.SubjectID)
	if err != nil {
		return nil, err
	}

	sub.Title = title
	sub.UpdatedAt = s.now()
	if err := s.subjects.Update(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubject) {
			return nil, ErrSubjectExists
		}
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Delete removes a subject owned by userID along with its notes.
func (s *SubjectService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrSubjectIDRequired
	}

	err := s.subjects.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrSubjectNotFound) {
		return ErrSubjectNotFound
	}
	return err
}

// List returns the subjects owned by userID, newest first.
func (s *SubjectService) List(ctx context.Context, userID string) ([]model.Subject, error) {
	return s.subjects.ListByUser(ctx, userID)
}

// Notes returns the notes filed under a subject owned by userID.
func (s *SubjectService) Notes(ctx context.Context, userID, subjectID string) ([]model.Note, error) {
	if subjectID == "" {
		return nil, ErrSubjectIDRequired
	}
	if _, err := s.owned(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	return s.notes.ListBySubject(ctx, userID, subjectID)
}

func (s *SubjectService) owned(ctx context.Context, userID, id string) (*model.Subject, error) {
	sub, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrSubjectNotFound
	}
	return sub, nil
}
