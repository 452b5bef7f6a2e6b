package repository

import (
	"context"
	"database/sql"

	"github.com/notevault/notevault-go/internal/model"
)

// VaultRepository handles password record persistence operations.
type VaultRepository struct {
	db *sql.DB
}

// NewVaultRepository creates a new VaultRepository.
func NewVaultRepository(db *sql.DB) *VaultRepository {
	return &VaultRepository{db: db}
}

// Create inserts a password record. entry.Password must already be an envelope.
func (r *VaultRepository) Create(ctx context.Context, entry *model.VaultEntry) error {
	query := `INSERT INTO passwords (id, user_id, title, username, password, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, nullString(entry.Username), entry.Password, entry.CreatedAt,
	)
	return err
}

// ListByUser retrieves all password records for a user, newest first.
func (r *VaultRepository) ListByUser(ctx context.Context, userID string) ([]model.VaultEntry, error) {
	query := `SELECT id, user_id, title, username, password, created_at
		FROM passwords WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.VaultEntry{}
	for rows.Next() {
		var e model.VaultEntry
		var username sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &username, &e.Password, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Username = username.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Delete removes a record only when id, title and owner all match.
func (r *VaultRepository) Delete(ctx context.Context, userID, id, title string) error {
	query := `DELETE FROM passwords WHERE id = ? AND user_id = ? AND title = ?`

	result, err := r.db.ExecContext(ctx, query, id, userID, title)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}
