package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/notevault/notevault-go/internal/model"
)

// NoteRepository handles note persistence, including share state.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, user_id, subject_id, title, description, short_note, is_shared, share_slug, expiry_time, created_at, updated_at`

// Create inserts a new note.
func (r *NoteRepository) Create(ctx context.Context, n *model.Note) error {
	query := `INSERT INTO notes (id, user_id, subject_id, title, description, short_note, is_shared, share_slug, expiry_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, nullString(n.SubjectID), n.Title, n.Description, nullString(n.ShortNote),
		n.IsShared, nullString(n.ShareSlug), nullTime(n.ExpiryTime), n.CreatedAt, n.UpdatedAt,
	)
	return err
}

// GetByID retrieves a note by ID regardless of owner.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`
	return scanNote(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a note by its share slug.
func (r *NoteRepository) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE share_slug = ?`
	return scanNote(r.db.QueryRowContext(ctx, query, slug))
}

// Update saves the editable fields of a note owned by n.UserID.
func (r *NoteRepository) Update(ctx context.Context, n *model.Note) error {
	query := `UPDATE notes SET subject_id = ?, title = ?, description = ?, short_note = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		nullString(n.SubjectID), n.Title, n.Description, nullString(n.ShortNote), n.UpdatedAt, n.ID, n.UserID,
	)
	if err != nil {
		return err
	}
	return expectRow(result, ErrNoteNotFound)
}

// Delete removes a note owned by userID.
func (r *NoteRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// ListByUser returns all notes of a user, newest first.
func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListCreatedBetween returns a user's notes created in [from, to), newest first.
func (r *NoteRepository) ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		WHERE user_id = ? AND created_at >= ? AND created_at < ? ORDER BY created_at DESC`
	return r.list(ctx, query, userID, from, to)
}

// ListBySubject returns a user's notes under a subject, newest first.
func (r *NoteRepository) ListBySubject(ctx context.Context, userID, subjectID string) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? AND subject_id = ? ORDER BY created_at DESC`
	return r.list(ctx, query, userID, subjectID)
}

// CountCreatedSince counts a user's notes created at or after since.
func (r *NoteRepository) CountCreatedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE user_id = ? AND created_at >= ?`, userID, since).Scan(&count)
	return count, err
}

// SetShare marks a note owned by userID as shared under slug until expiry.
func (r *NoteRepository) SetShare(ctx context.Context, userID, id, slug string, expiry time.Time) error {
	query := `UPDATE notes SET is_shared = TRUE, share_slug = ?, expiry_time = ? WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, slug, expiry, id, userID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateSlug
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// RevokeShare clears the share state of a note, but only while it is still
// shared under slug. It reports whether this call changed anything.
func (r *NoteRepository) RevokeShare(ctx context.Context, id, slug string) (bool, error) {
	query := `UPDATE notes SET is_shared = FALSE, share_slug = NULL WHERE id = ? AND share_slug = ?`

	result, err := r.db.ExecContext(ctx, query, id, slug)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *NoteRepository) list(ctx context.Context, query string, args ...any) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}

	return notes, rows.Err()
}

func scanNote(row rowScanner) (*model.Note, error) {
	n := &model.Note{}
	var subjectID, shortNote, slug sql.NullString
	var expiry sql.NullTime

	err := row.Scan(
		&n.ID, &n.UserID, &subjectID, &n.Title, &n.Description, &shortNote,
		&n.IsShared, &slug, &expiry, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	n.SubjectID = subjectID.String
	n.ShortNote = shortNote.String
	n.ShareSlug = slug.String
	n.ExpiryTime = timePtr(expiry)
	return n, nil
}
