package returns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) ListNumbers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT return_number FROM returns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) NumberExists(ctx context.Context, number string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM returns WHERE return_number = ? LIMIT 1`, number).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func releaseOnRent(ctx context.Context, tx *sql.Tx, plateSize string, qty int) error {
	// floor at zero; an over-return must not drive the projection negative
	const q = `UPDATE stock SET on_rent = GREATEST(on_rent - ?, 0) WHERE plate_size = ?`
	_, err := tx.ExecContext(ctx, q, qty, plateSize)
	return err
}

func insertItems(ctx context.Context, tx *sql.Tx, returnID int64, items []ItemInput) error {
	const q = `
	INSERT INTO return_line_items (return_id, plate_size, quantity, damage_note)
	VALUES (?, ?, ?, ?)`
	for _, it := range items {
		var note any
		if it.DamageNote != nil && *it.DamageNote != "" {
			note = *it.DamageNote
		}
		if _, err := tx.ExecContext(ctx, q, returnID, it.PlateSize, it.Quantity, note); err != nil {
			return err
		}
	}
	return nil
}

// ExecCreate inserts header and items in one transaction and releases
// the returned quantities from the stock projection.
func (s *Store) ExecCreate(ctx context.Context, ret *ReturnChallan, items []ItemInput) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
	INSERT INTO returns (return_ulid, return_number, client_id, return_date, created_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`
	res, execErr := tx.ExecContext(ctx, q, ret.ReturnULID, ret.ReturnNumber, ret.ClientID, ret.ReturnDate)
	if execErr != nil {
		var me *mysql.MySQLError
		if errors.As(execErr, &me) && me.Number == 1062 {
			err = ErrConflict("return number already in use")
			return err
		}
		err = execErr
		return err
	}
	id, _ := res.LastInsertId()
	ret.ReturnID = id

	if err = insertItems(ctx, tx, id, items); err != nil {
		return err
	}

	for size, qty := range sumInputsBySize(items) {
		if err = releaseOnRent(ctx, tx, size, qty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetWithItems(ctx context.Context, returnID int64) (*ReturnChallan, []ReturnLineItem, error) {
	const q = `
	SELECT return_id, return_ulid, return_number, client_id, return_date, created_at
	FROM returns WHERE return_id = ?`
	var ret ReturnChallan
	err := s.db.QueryRowContext(ctx, q, returnID).Scan(
		&ret.ReturnID, &ret.ReturnULID, &ret.ReturnNumber, &ret.ClientID,
		&ret.ReturnDate, &ret.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound("return not found")
	}
	if err != nil {
		return nil, nil, err
	}

	items, err := s.itemsOf(ctx, returnID)
	if err != nil {
		return nil, nil, err
	}
	return &ret, items, nil
}

func (s *Store) itemsOf(ctx context.Context, returnID int64) ([]ReturnLineItem, error) {
	const q = `
	SELECT item_id, return_id, plate_size, quantity, damage_note
	FROM return_line_items WHERE return_id = ? ORDER BY item_id`
	rows, err := s.db.QueryContext(ctx, q, returnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReturnLineItem
	for rows.Next() {
		var it ReturnLineItem
		if err := rows.Scan(&it.ItemID, &it.ReturnID, &it.PlateSize, &it.Quantity, &it.DamageNote); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, f ReturnFilter, p Page) ([]ReturnChallan, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE 1=1`)
	args := []any{}
	if f.ClientID != nil {
		where.WriteString(` AND client_id = ?`)
		args = append(args, *f.ClientID)
	}
	if f.Number != nil {
		where.WriteString(` AND return_number = ?`)
		args = append(args, *f.Number)
	}
	if f.From != nil {
		where.WriteString(` AND return_date >= ?`)
		args = append(args, *f.From)
	}
	if f.To != nil {
		where.WriteString(` AND return_date < ?`)
		args = append(args, *f.To)
	}

	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	q := fmt.Sprintf(`
	SELECT return_id, return_ulid, return_number, client_id, return_date, created_at
	FROM returns%s ORDER BY return_date %s, return_id %s LIMIT ? OFFSET ?`, where.String(), order, order)

	rows, err := s.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ReturnChallan
	for rows.Next() {
		var r ReturnChallan
		if err := rows.Scan(&r.ReturnID, &r.ReturnULID, &r.ReturnNumber, &r.ClientID,
			&r.ReturnDate, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM returns`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) ItemsFor(ctx context.Context, ids []int64) (map[int64][]ReturnLineItem, error) {
	out := make(map[int64][]ReturnLineItem)
	if len(ids) == 0 {
		return out, nil
	}

	ph := strings.Repeat("?,", len(ids))
	ph = ph[:len(ph)-1]
	q := fmt.Sprintf(`
	SELECT item_id, return_id, plate_size, quantity, damage_note
	FROM return_line_items WHERE return_id IN (%s) ORDER BY item_id`, ph)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it ReturnLineItem
		if err := rows.Scan(&it.ItemID, &it.ReturnID, &it.PlateSize, &it.Quantity, &it.DamageNote); err != nil {
			return nil, err
		}
		out[it.ReturnID] = append(out[it.ReturnID], it)
	}
	return out, rows.Err()
}

func sumInputsBySize(items []ItemInput) map[string]int {
	m := make(map[string]int)
	for _, it := range items {
		m[it.PlateSize] += it.Quantity
	}
	return m
}

func sumItemsBySize(items []ReturnLineItem) map[string]int {
	m := make(map[string]int)
	for _, it := range items {
		m[it.PlateSize] += it.Quantity
	}
	return m
}

// ExecUpdate edits the header and atomically replaces line items when
// req.Items is set, moving the stock projection by the per-size delta.
func (s *Store) ExecUpdate(ctx context.Context, returnID int64, req UpdateReturnRequest, returnDate *time.Time) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM returns WHERE return_id = ? FOR UPDATE`, returnID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound("return not found")
		return err
	}
	if err != nil {
		return err
	}

	sets := []string{}
	args := []any{}
	if req.ReturnNumber != nil {
		sets = append(sets, "return_number = ?")
		args = append(args, *req.ReturnNumber)
	}
	if req.ClientID != nil {
		sets = append(sets, "client_id = ?")
		args = append(args, *req.ClientID)
	}
	if returnDate != nil {
		sets = append(sets, "return_date = ?")
		args = append(args, *returnDate)
	}
	if len(sets) > 0 {
		q := fmt.Sprintf(`UPDATE returns SET %s WHERE return_id = ?`, strings.Join(sets, ", "))
		if _, execErr := tx.ExecContext(ctx, q, append(args, returnID)...); execErr != nil {
			var me *mysql.MySQLError
			if errors.As(execErr, &me) && me.Number == 1062 {
				err = ErrConflict("return number already in use")
				return err
			}
			err = execErr
			return err
		}
	}

	if req.Items != nil {
		old, ierr := itemsOfTx(ctx, tx, returnID)
		if ierr != nil {
			err = ierr
			return err
		}

		if _, err = tx.ExecContext(ctx, `DELETE FROM return_line_items WHERE return_id = ?`, returnID); err != nil {
			return err
		}
		if err = insertItems(ctx, tx, returnID, req.Items); err != nil {
			return err
		}

		oldSums := sumItemsBySize(old)
		newSums := sumInputsBySize(req.Items)
		// a larger return releases more plates, a smaller one takes them back
		for size, qty := range newSums {
			if delta := qty - oldSums[size]; delta != 0 {
				if err = releaseOnRent(ctx, tx, size, delta); err != nil {
					return err
				}
			}
		}
		for size, qty := range oldSums {
			if _, still := newSums[size]; !still {
				if err = releaseOnRent(ctx, tx, size, -qty); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// ExecDelete removes items and header in one transaction and puts the
// quantities back on rent.
func (s *Store) ExecDelete(ctx context.Context, returnID int64) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	old, err := itemsOfTx(ctx, tx, returnID)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM return_line_items WHERE return_id = ?`, returnID); err != nil {
		return err
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM returns WHERE return_id = ?`, returnID)
	if execErr != nil {
		err = execErr
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = ErrNotFound("return not found")
		return err
	}

	for size, qty := range sumItemsBySize(old) {
		if err = releaseOnRent(ctx, tx, size, -qty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func itemsOfTx(ctx context.Context, tx *sql.Tx, returnID int64) ([]ReturnLineItem, error) {
	const q = `
	SELECT item_id, return_id, plate_size, quantity, damage_note
	FROM return_line_items WHERE return_id = ? ORDER BY item_id`
	rows, err := tx.QueryContext(ctx, q, returnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReturnLineItem
	for rows.Next() {
		var it ReturnLineItem
		if err := rows.Scan(&it.ItemID, &it.ReturnID, &it.PlateSize, &it.Quantity, &it.DamageNote); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
