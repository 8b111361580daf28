package sizes

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) List(ctx context.Context, includeDisabled bool) ([]PlateSize, error) {
	q := `
		SELECT size_id, size_label, sort_order, is_disabled
		FROM plate_sizes
	`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY sort_order, size_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]PlateSize, 0, 16)
	for rows.Next() {
		var ps PlateSize
		if err := rows.Scan(&ps.SizeID, &ps.Label, &ps.SortOrder, &ps.IsDisabled); err != nil {
			return nil, err
		}
		res = append(res, ps)
	}
	return res, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id uint) (*PlateSize, error) {
	const q = `
		SELECT size_id, size_label, sort_order, is_disabled
		FROM plate_sizes WHERE size_id = ?`
	var ps PlateSize
	err := s.db.QueryRowContext(ctx, q, id).Scan(&ps.SizeID, &ps.Label, &ps.SortOrder, &ps.IsDisabled)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

func (s *Store) Create(ctx context.Context, label string, sortOrder int) (*PlateSize, error) {
	const q = `
		INSERT INTO plate_sizes (size_label, sort_order, is_disabled)
		VALUES (?, ?, 0)`
	res, err := s.db.ExecContext(ctx, q, label, sortOrder)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, uint(id))
}

func (s *Store) Update(ctx context.Context, id uint, label string, sortOrder int, disabled bool) error {
	const q = `
		UPDATE plate_sizes
		SET size_label = ?, sort_order = ?, is_disabled = ?
		WHERE size_id = ?`
	res, err := s.db.ExecContext(ctx, q, label, sortOrder, disabled, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Disable is the delete path; rows referenced by old challans must
// survive, so removal is a soft flag.
func (s *Store) Disable(ctx context.Context, id uint) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plate_sizes SET is_disabled = 1 WHERE size_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
