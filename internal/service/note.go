package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository"
)

// Window is a calendar period used to filter notes by creation time.
type Window int

const (
	WindowWeek Window = iota + 1
	WindowMonth
	WindowYear
)

// Bounds returns the half-open interval [from, to) of the window containing
// now. Weeks start on Monday.
func (w Window) Bounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()

	switch w {
	case WindowWeek:
		offset := (int(now.Weekday()) + 6) % 7
		from := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 0, 7)
	case WindowMonth:
		from := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	default:
		from := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NoteService handles note business logic.
type NoteService struct {
	notes      NoteStore
	subjects   SubjectStore
	dailyLimit int
	now        func() time.Time
}

// NewNoteService creates a new NoteService. A dailyLimit of zero disables the
// per-day creation cap.
func NewNoteService(notes NoteStore, subjects SubjectStore, dailyLimit int) *NoteService {
	return &NoteService{
		notes:      notes,
		subjects:   subjects,
		dailyLimit: dailyLimit,
		now:        utcNow,
	}
}

// Create adds a note owned by userID.
func (s *NoteService) Create(ctx context.Context, userID string, req model.NoteRequest) (*model.Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if req.SubjectID != "" {
		if err := s.checkSubject(ctx, userID, req.SubjectID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if s.dailyLimit > 0 {
		count, err := s.notes.CountCreatedSince(ctx, userID, startOfDay(now))
		if err != nil {
			return nil, err
		}
		if count >= s.dailyLimit {
			return nil, ErrDailyNoteLimit
		}
	}

	note := &model.Note{
		ID:          uuid.NewString(),
		UserID:      userID,
		SubjectID:   req.SubjectID,
		Title:       title,
		Description: req.Description,
		ShortNote:   req.ShortNote,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Update edits a note owned by userID. Empty fields are left unchanged.
func (s *NoteService) Update(ctx context.Context, userID string, req model.NoteRequest) (*model.Note, error) {
	if req.ID == "" {
		return nil, ErrNoteIDRequired
	}

	note, err := s.owned(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.SubjectID != "" && req.SubjectID != note.SubjectID {
		if err := s.checkSubject(ctx, userID, req.SubjectID); err != nil {
			return nil, err
		}
		note.SubjectID = req.SubjectID
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		note.Title = title
	}
	if req.Description != "" {
		note.Description = req.Description
	}
	if req.ShortNote != "" {
		note.ShortNote = req.ShortNote
	}
	note.UpdatedAt = s.now()

	if err := s.notes.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// Delete removes a note owned by userID.
func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrNoteIDRequired
	}

	err := s.notes.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return ErrNoteNotFound
	}
	return err
}

// List returns every note owned by userID, newest first.
func (s *NoteService) List(ctx context.Context, userID string) ([]model.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// ListWindow returns the notes userID created in the current week, month or year.
func (s *NoteService) ListWindow(ctx context.Context, userID string, w Window) ([]model.Note, error) {
	from, to := w.Bounds(s.now())
	notes, err := s.notes.ListCreatedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing notes between %s and %s: %w", from.Format(time.DateOnly), to.Format(time.DateOnly), err)
	}
	return notes, nil
}

// owned loads a note and hides notes of other users behind ErrNoteNotFound.
func (s *NoteService) owned(ctx context.Context, userID, id string) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) checkSubject(ctx context.Context, userID, subjectID string) error {
	sub, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	if sub.UserID != userID {
		return ErrNotSubjectOwner
	}
	return nil
}
