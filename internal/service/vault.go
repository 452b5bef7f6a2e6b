package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository"
)

// decryptionFailed marks list items whose envelope could not be opened.
const decryptionFailed = "decryption failed"

// VaultService handles password vault business logic.
type VaultService struct {
	store  VaultStore
	cipher Cipher
	now    func() time.Time
}

// NewVaultService creates a new VaultService.
func NewVaultService(store VaultStore, cipher Cipher) *VaultService {
	return &VaultService{
		store:  store,
		cipher: cipher,
		now:    utcNow,
	}
}

// Create encrypts and stores a password for ownerID and returns its id.
func (s *VaultService) Create(ctx context.Context, ownerID string, req model.VaultEntryRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if req.Password == "" {
		return "", ErrPasswordRequired
	}

	envelope, err := s.cipher.Encrypt(req.Password)
	if err != nil {
		return "", fmt.Errorf("encrypting vault password: %w", err)
	}

	entry := &model.VaultEntry{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		Username:  req.Username,
		Password:  envelope,
		CreatedAt: s.now(),
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// List returns every password of ownerID decrypted, newest first. A record
// that cannot be decrypted is returned with Error set and no password.
func (s *VaultService) List(ctx context.Context, ownerID string) ([]model.VaultItem, error) {
	entries, err := s.store.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]model.VaultItem, len(entries))
	for i, e := range entries {
		items[i] = model.VaultItem{
			ID:        e.ID,
			Title:     e.Title,
			Username:  e.Username,
			CreatedAt: e.CreatedAt,
		}

		plaintext, err := s.cipher.Decrypt(e.Password)
		if err != nil {
			slog.Warn("vault record could not be decrypted", "entry_id", e.ID, "error", err)
			items[i].Error = decryptionFailed
			continue
		}
		items[i].Password = plaintext
	}

	return items, nil
}

// Delete removes a password only when id, title and owner all match.
func (s *VaultService) Delete(ctx context.Context, ownerID string, req model.VaultDeleteRequest) error {
	if req.ID == "" {
		return ErrEntryIDRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return ErrTitleRequired
	}

	err := s.store.Delete(ctx, ownerID, req.ID, title)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return ErrVaultEntryNotFound
	}
	return err
}
