package mariadb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type TokenLedger struct {
	db    *sql.DB
	newID port.UUIDGen
}

// compile-time check: *TokenLedger must satisfy port.TokenLedger
var _ port.TokenLedger = (*TokenLedger)(nil)

func NewTokenLedger(db *sql.DB) *TokenLedger {
	return &TokenLedger{db: db, newID: uuid.NewUUID}
}

func (l *TokenLedger) Create(ctx context.Context, parentID *uuid.UUID) (uuid.UUID, error) {
	id := l.newID()
	logger.Debug(ctx, "creating token", "token", id, "parent_id", parentID)

	const query = `
      INSERT INTO tokens (id, parent_id, locked)
      VALUES (?, ?, FALSE)
    `
	if _, err := l.db.ExecContext(ctx, query, id, uuid.NullFrom(parentID)); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Lock flips an unlocked token to locked. The conditional UPDATE is atomic
// at the row level, so concurrent callers for the same id see exactly one
// affected row between them; the losers get ErrTokenNotFound.
func (l *TokenLedger) Lock(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	logger.Debug(ctx, "locking token", "token", id)

	const lockQuery = `
      UPDATE tokens
      SET locked = TRUE
      WHERE id = ? AND locked = FALSE
    `
	res, err := l.db.ExecContext(ctx, lockQuery, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n != 1 {
		return nil, recording.ErrTokenNotFound
	}

	const parentQuery = `
      SELECT parent_id
      FROM tokens
      WHERE id = ?
    `
	var parent uuid.NullUUID
	if err := l.db.QueryRowContext(ctx, parentQuery, id).Scan(&parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recording.ErrTokenNotFound
		}
		return nil, err
	}
	return parent.Ptr(), nil
}

func (l *TokenLedger) Release(ctx context.Context, id uuid.UUID) error {
	logger.Debug(ctx, "releasing token", "token", id)

	const query = `
      UPDATE tokens
      SET locked = FALSE
      WHERE id = ? AND locked = TRUE
    `
	_, err := l.db.ExecContext(ctx, query, id)
	return err
}

func (l *TokenLedger) Remove(ctx context.Context, id uuid.UUID) error {
	logger.Debug(ctx, "removing token", "token", id)

	const query = `DELETE FROM tokens WHERE id = ?`
	_, err := l.db.ExecContext(ctx, query, id)
	return err
}

func (l *TokenLedger) Retrieve(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	const query = `
      SELECT id, parent_id, locked
      FROM tokens
      WHERE id = ?
    `
	var (
		t      model.Token
		parent uuid.NullUUID
	)
	if err := l.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &parent, &t.Locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recording.ErrTokenNotFound
		}
		return nil, err
	}
	t.ParentID = parent.Ptr()
	return &t, nil
}

// ListByParent returns the unlocked tokens attached to a recording.
func (l *TokenLedger) ListByParent(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	const query = `
      SELECT id
      FROM tokens
      WHERE parent_id = ? AND locked = FALSE
      ORDER BY created_at
    `
	rows, err := l.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
