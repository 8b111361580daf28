package stock

import (
	"context"
	"database/sql"
	"errors"

	"CPMS-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

func (s *Store) Upsert(ctx context.Context, plateSize string, totalQty int) error {
	const q = `
	INSERT INTO stock (plate_size, total_qty, on_rent)
	VALUES (?, ?, 0)
	ON DUPLICATE KEY UPDATE total_qty = VALUES(total_qty)`
	_, err := s.db.ExecContext(ctx, q, plateSize, totalQty)
	return err
}

func (s *Store) Get(ctx context.Context, plateSize string) (*StockResponse, error) {
	const q = `SELECT plate_size, total_qty, on_rent FROM stock WHERE plate_size = ?`
	var r StockResponse
	if err := s.db.QueryRowContext(ctx, q, plateSize).Scan(&r.PlateSize, &r.TotalQty, &r.OnRent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("stock row not found")
		}
		return nil, err
	}
	r.Available = r.TotalQty - r.OnRent
	return &r, nil
}

func (s *Store) List(ctx context.Context) ([]StockResponse, error) {
	const q = `SELECT plate_size, total_qty, on_rent FROM stock ORDER BY plate_size`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockResponse
	for rows.Next() {
		var r StockResponse
		if err := rows.Scan(&r.PlateSize, &r.TotalQty, &r.OnRent); err != nil {
			return nil, err
		}
		r.Available = r.TotalQty - r.OnRent
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, plateSize string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stock WHERE plate_size = ?`, plateSize)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Rebuild resets on_rent to SUM(issued) - SUM(returned) per size,
// floored at zero. Sizes with activity but no stock row are left alone;
// they surface in the ledger, not in stock.
func (s *Store) Rebuild(ctx context.Context) (int, error) {
	var updated int
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `
		UPDATE stock st
		LEFT JOIN (
			SELECT i.plate_size, SUM(i.quantity) AS issued
			FROM challan_items i GROUP BY i.plate_size
		) iss ON iss.plate_size = st.plate_size
		LEFT JOIN (
			SELECT r.plate_size, SUM(r.quantity) AS returned
			FROM return_line_items r GROUP BY r.plate_size
		) ret ON ret.plate_size = st.plate_size
		SET st.on_rent = GREATEST(COALESCE(iss.issued,0) - COALESCE(ret.returned,0), 0)`
		res, err := tx.ExecContext(ctx, q)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		updated = int(n)
		return nil
	})
	return updated, err
}
