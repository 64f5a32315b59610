package mariadb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type KeyRepository struct {
	db    *sql.DB
	newID port.UUIDGen
}

// compile-time check: *KeyRepository must satisfy port.KeyRepository
var _ port.KeyRepository = (*KeyRepository)(nil)

func NewKeyRepository(db *sql.DB) *KeyRepository {
	return &KeyRepository{db: db, newID: uuid.NewUUID}
}

func (r *KeyRepository) CreateKey(ctx context.Context, recordingID uuid.UUID, email *string) (uuid.UUID, error) {
	key := r.newID()

	const query = `
      INSERT INTO management_keys (id, recording_id, email)
      VALUES (?, ?, ?)
    `
	if _, err := r.db.ExecContext(ctx, query, key, recordingID, email); err != nil {
		return uuid.Nil, err
	}
	return key, nil
}

func (r *KeyRepository) FindRecordingByKey(ctx context.Context, key uuid.UUID) (uuid.UUID, error) {
	const query = `
      SELECT k.recording_id
      FROM management_keys k
      JOIN recordings r ON r.id = k.recording_id
      WHERE k.id = ? AND r.deleted_at IS NULL
    `
	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, recording.ErrKeyNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}
