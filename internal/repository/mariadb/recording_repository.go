package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type RecordingRepository struct {
	db *sql.DB
}

// compile-time check: *RecordingRepository must satisfy port.RecordingRepository
var _ port.RecordingRepository = (*RecordingRepository)(nil)

func NewRecordingRepository(db *sql.DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

// Insert creates the row without URL or MIME type; both are linked once the
// audio is stored.
func (r *RecordingRepository) Insert(ctx context.Context, rec model.NewRecording) error {
	logger.Debug(ctx, "creating database record for recording", "id", rec.ID, "parent_id", rec.ParentID)

	const query = `
      INSERT INTO recordings
        (id, parent_id, name, category_id, age_id, gender_id, location, occupation)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	m := rec.Metadata
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, uuid.NullFrom(rec.ParentID), m.Name,
		m.Category, m.Age, m.Gender,
		m.Location, m.Occupation,
	)
	return mapInsertErr(err)
}

func (r *RecordingRepository) UpdateURL(ctx context.Context, id uuid.UUID, url string, mimeTypeID int16) error {
	logger.Debug(ctx, "linking url to recording", "id", id, "url", url)

	const query = `
      UPDATE recordings
      SET url = ?, mime_type_id = ?
      WHERE id = ? AND deleted_at IS NULL
    `
	res, err := r.db.ExecContext(ctx, query, url, mimeTypeID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return recording.ErrRecordingNotFound
	}
	return nil
}

func (r *RecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Recording, error) {
	logger.Debug(ctx, "fetching recording from the database", "id", id)

	const query = `
      SELECT r.id, r.parent_id, r.name, r.url, m.essence, r.category_id, r.age_id, r.gender_id,
             r.location, r.occupation, r.created_at, r.updated_at, r.deleted_at
      FROM recordings r
      LEFT JOIN mime_types m ON m.id = r.mime_type_id
      WHERE r.id = ?
    `
	var (
		recID      uuid.UUID
		parent     uuid.NullUUID
		name       sql.NullString
		url        sql.NullString
		essence    sql.NullString
		category   sql.NullInt16
		age        sql.NullInt16
		gender     sql.NullInt16
		location   sql.NullString
		occupation sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&recID, &parent, &name, &url, &essence, &category, &age, &gender,
		&location, &occupation, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recording.ErrRecordingNotFound
	}
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		return &model.DeletedRecording{
			ID:        recID,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
			DeletedAt: deletedAt.Time,
			ParentID:  parent.Ptr(),
		}, nil
	}
	return &model.ActiveRecording{
		ID:         recID,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Name:       name.String,
		ParentID:   parent.Ptr(),
		URL:        nullStringPtr(url),
		MimeType:   nullStringPtr(essence),
		Category:   category.Int16,
		Age:        nullInt16Ptr(age),
		Gender:     nullInt16Ptr(gender),
		Location:   nullStringPtr(location),
		Occupation: nullStringPtr(occupation),
	}, nil
}

// Delete turns the row into a tombstone, freeing its name, and drops the
// tokens that were issued to reply to it.
func (r *RecordingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logger.Debug(ctx, "deleting recording from the database", "id", id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const tombstone = `
      UPDATE recordings
      SET deleted_at = CURRENT_TIMESTAMP(3),
          name = NULL, url = NULL, mime_type_id = NULL, category_id = NULL,
          age_id = NULL, gender_id = NULL, location = NULL, occupation = NULL
      WHERE id = ? AND deleted_at IS NULL
    `
	res, err := tx.ExecContext(ctx, tombstone, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		const exists = `SELECT deleted_at IS NOT NULL FROM recordings WHERE id = ?`
		var deleted bool
		if err := tx.QueryRowContext(ctx, exists, id).Scan(&deleted); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return recording.ErrRecordingNotFound
			}
			return err
		}
		if deleted {
			return recording.ErrRecordingDeleted
		}
		return fmt.Errorf("recording %s was not deleted", id)
	}

	const dropTokens = `DELETE FROM tokens WHERE parent_id = ?`
	if _, err := tx.ExecContext(ctx, dropTokens, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *RecordingRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.RecordingSummary, error) {
	const query = `
      SELECT id, name, location
      FROM recordings
      WHERE parent_id = ? AND deleted_at IS NULL AND url IS NOT NULL
      ORDER BY created_at
    `
	return r.querySummaries(ctx, query, parentID)
}

func (r *RecordingRepository) CountActive(ctx context.Context) (int64, error) {
	const query = `
      SELECT COUNT(*)
      FROM recordings
      WHERE deleted_at IS NULL AND url IS NOT NULL
    `
	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RecordingRepository) Random(ctx context.Context, n int) ([]model.RecordingSummary, error) {
	const query = `
      SELECT id, name, location
      FROM recordings
      WHERE deleted_at IS NULL AND url IS NOT NULL
      ORDER BY RAND()
      LIMIT ?
    `
	return r.querySummaries(ctx, query, n)
}

func (r *RecordingRepository) NameExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM recordings WHERE name = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *RecordingRepository) querySummaries(ctx context.Context, query string, args ...any) ([]model.RecordingSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RecordingSummary{}
	for rows.Next() {
		var (
			s        model.RecordingSummary
			location sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &location); err != nil {
			return nil, err
		}
		s.Location = nullStringPtr(location)
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt16Ptr(i sql.NullInt16) *int16 {
	if !i.Valid {
		return nil
	}
	v := i.Int16
	return &v
}
