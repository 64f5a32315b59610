package mariadb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
)

type LabelRepository struct {
	db *sql.DB
}

// compile-time check: *LabelRepository must satisfy port.LabelRepository
var _ port.LabelRepository = (*LabelRepository)(nil)

func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

var labelQueries = map[model.LabelKind]string{
	model.LabelAges:       `SELECT id, label, description FROM ages ORDER BY sort_order, id`,
	model.LabelGenders:    `SELECT id, label, description FROM genders ORDER BY sort_order, id`,
	model.LabelCategories: `SELECT id, label, description FROM categories ORDER BY sort_order, id`,
}

func (r *LabelRepository) ListLabels(ctx context.Context, kind model.LabelKind) ([]model.Label, error) {
	query, ok := labelQueries[kind]
	if !ok {
		return nil, fmt.Errorf("unknown label kind %q", kind)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []model.Label{}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Label, &l.Description); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
