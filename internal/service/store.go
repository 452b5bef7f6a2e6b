package service

import (
	"context"
	"time"

	"github.com/notevault/notevault-go/internal/model"
)

// UserStore persists accounts. Implementations return the repository
// sentinels (ErrUserNotFound, ErrDuplicateEmail).
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// TokenRevoker records logged-out session tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// IdentityVerifier validates an identity-provider credential.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, credential string) (model.Identity, error)
}

// SubjectStore persists subjects.
type SubjectStore interface {
	Create(ctx context.Context, s *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	ListByUser(ctx context.Context, userID string) ([]model.Subject, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, userID, id string) error
}

// NoteStore persists notes.
type NoteStore interface {
	Create(ctx context.Context, n *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	Update(ctx context.Context, n *model.Note) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]model.Note, error)
	ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Note, error)
	ListBySubject(ctx context.Context, userID, subjectID string) ([]model.Note, error)
	CountCreatedSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// ShareStore holds the share state of notes.
type ShareStore interface {
	GetByID(ctx context.Context, id string) (*model.Note, error)
	GetBySlug(ctx context.Context, slug string) (*model.Note, error)
	SetShare(ctx context.Context, userID, id, slug string, expiry time.Time) error
	RevokeShare(ctx context.Context, id, slug string) (bool, error)
}

// VaultStore persists encrypted password records.
type VaultStore interface {
	Create(ctx context.Context, entry *model.VaultEntry) error
	ListByUser(ctx context.Context, userID string) ([]model.VaultEntry, error)
	Delete(ctx context.Context, userID, id, title string) error
}

// Cipher seals vault secrets.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
