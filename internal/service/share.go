package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notevault/notevault-go/internal/crypto"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository"
)

// maxSlugAttempts bounds slug regeneration after unique-key collisions.
const maxSlugAttempts = 5

// ShareService publishes notes behind unguessable, expiring links.
type ShareService struct {
	notes   ShareStore
	baseURL string
	ttl     time.Duration
	newSlug func() (string, error)
	now     func() time.Time
}

// NewShareService creates a ShareService producing links of the form
// baseURL+slug that stay valid for ttl.
func NewShareService(notes ShareStore, baseURL string, ttl time.Duration) *ShareService {
	return &ShareService{
		notes:   notes,
		baseURL: baseURL,
		ttl:     ttl,
		newSlug: crypto.NewSlug,
		now:     utcNow,
	}
}

// Share publishes a note owned by ownerID. Sharing an already shared note
// replaces its slug and restarts the expiry window.
func (s *ShareService) Share(ctx context.Context, ownerID, noteID string) (model.ShareLink, error) {
	if noteID == "" {
		return model.ShareLink{}, ErrNoteIDRequired
	}

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return model.ShareLink{}, ErrNoteNotFound
		}
		return model.ShareLink{}, err
	}
	if note.UserID != ownerID {
		return model.ShareLink{}, ErrNotNoteOwner
	}

	expiry := s.now().Add(s.ttl)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := s.newSlug()
		if err != nil {
			return model.ShareLink{}, fmt.Errorf("generating share slug: %w", err)
		}

		err = s.notes.SetShare(ctx, ownerID, noteID, slug, expiry)
		switch {
		case err == nil:
			return model.ShareLink{Link: s.baseURL + slug, ExpiryTime: expiry}, nil
		case errors.Is(err, repository.ErrDuplicateSlug):
			slog.Warn("share slug collision, regenerating", "note_id", noteID, "attempt", attempt)
		case errors.Is(err, repository.ErrNoteNotFound):
			return model.ShareLink{}, ErrNoteNotFound
		default:
			return model.ShareLink{}, err
		}
	}

	return model.ShareLink{}, fmt.Errorf("allocating share slug for note %s: %d attempts collided", noteID, maxSlugAttempts)
}

// View resolves a public link. An expired share is revoked before the call
// returns, so every later View of the same slug fails the same way.
func (s *ShareService) View(ctx context.Context, slug string) (model.SharedNote, error) {
	if slug == "" {
		return model.SharedNote{}, ErrSlugRequired
	}

	note, err := s.notes.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return model.SharedNote{}, ErrShareGone
		}
		return model.SharedNote{}, err
	}
	if !note.IsShared {
		return model.SharedNote{}, ErrShareGone
	}

	if note.ShareExpired(s.now()) {
		if _, err := s.notes.RevokeShare(ctx, note.ID, slug); err != nil {
			return model.SharedNote{}, fmt.Errorf("revoking expired share of note %s: %w", note.ID, err)
		}
		return model.SharedNote{}, ErrShareGone
	}

	return model.SharedNote{
		Title:       note.Title,
		Description: note.Description,
		ShortNote:   note.ShortNote,
		CreatedAt:   note.CreatedAt,
		ExpiryTime:  *note.ExpiryTime,
	}, nil
}
