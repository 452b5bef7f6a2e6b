package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notevault/notevault-go/internal/model"
)

// SubjectRepository handles subject persistence operations.
type SubjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = `id, user_id, title, created_at, updated_at`

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	query := `INSERT INTO subjects (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Title, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateSubject
		}
		return err
	}
	return nil
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = ?`

	s := &model.Subject{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListByUser returns a user's subjects, newest first.
func (r *SubjectRepository) ListByUser(ctx context.Context, userID string) ([]model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// Update renames a subject owned by s.UserID. A missing or foreign subject
// is ErrSubjectNotFound.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	query := `UPDATE subjects SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, s.Title, s.UpdatedAt, s.ID, s.UserID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateSubject
		}
		return err
	}
	return expectRow(result, ErrSubjectNotFound)
}

// Delete removes a subject and its notes.
func (r *SubjectRepository) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE subject_id = ? AND user_id = ?`, id, userID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSubjectNotFound
	}

	return tx.Commit()
}
