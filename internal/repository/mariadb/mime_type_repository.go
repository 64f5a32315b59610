package mariadb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

type MimeTypeRepository struct {
	db *sql.DB
}

// compile-time check: *MimeTypeRepository must satisfy port.MimeTypeRepository
var _ port.MimeTypeRepository = (*MimeTypeRepository)(nil)

func NewMimeTypeRepository(db *sql.DB) *MimeTypeRepository {
	return &MimeTypeRepository{db: db}
}

func (r *MimeTypeRepository) FindByFormat(ctx context.Context, f model.AudioFormat) (*model.MimeType, error) {
	logger.Debug(ctx, "looking up mime type", "format", f.String())

	const query = `
      SELECT id, container, codec, essence, extension
      FROM mime_types
      WHERE container = ? AND codec = ?
    `
	var m model.MimeType
	err := r.db.QueryRowContext(ctx, query, f.Container, f.Codec).Scan(
		&m.ID, &m.Format.Container, &m.Format.Codec, &m.Essence, &m.Extension,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recording.ErrMimeTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MimeTypeRepository) ListMimeTypes(ctx context.Context) ([]model.MimeType, error) {
	const query = `
      SELECT id, container, codec, essence, extension
      FROM mime_types
      ORDER BY id
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MimeType{}
	for rows.Next() {
		var m model.MimeType
		if err := rows.Scan(&m.ID, &m.Format.Container, &m.Format.Codec, &m.Essence, &m.Extension); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
