package challans

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

// ListNumbers feeds the numbering suggestion.
func (s *Store) ListNumbers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT challan_number FROM challans`)
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
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM challans WHERE challan_number = ? LIMIT 1`, number).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// lock the stock row for a size. ok=false when the size has no stock
// row; unknown labels pass through without bookkeeping.
func lockStockRow(ctx context.Context, tx *sql.Tx, plateSize string) (totalQty, onRent int, ok bool, err error) {
	const q = `SELECT total_qty, on_rent FROM stock WHERE plate_size = ? FOR UPDATE`
	err = tx.QueryRowContext(ctx, q, plateSize).Scan(&totalQty, &onRent)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return totalQty, onRent, true, nil
}

func adjustOnRent(ctx context.Context, tx *sql.Tx, plateSize string, delta int) error {
	const q = `UPDATE stock SET on_rent = GREATEST(on_rent + ?, 0) WHERE plate_size = ?`
	// 0 rows affected is fine: no stock row, or delta cancels out
	_, err := tx.ExecContext(ctx, q, delta, plateSize)
	return err
}

func insertItems(ctx context.Context, tx *sql.Tx, challanID int64, items []ItemInput) error {
	const q = `
	INSERT INTO challan_items (challan_id, plate_size, quantity, note)
	VALUES (?, ?, ?, ?)`
	for _, it := range items {
		var note any
		if it.Note != nil && *it.Note != "" {
			note = *it.Note
		}
		if _, err := tx.ExecContext(ctx, q, challanID, it.PlateSize, it.Quantity, note); err != nil {
			return err
		}
	}
	return nil
}

// ExecCreate runs the whole issue flow in one transaction: stock check
// per size (overridable), projection update, header and item inserts.
func (s *Store) ExecCreate(ctx context.Context, ch *Challan, items []ItemInput, override bool) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// 1. stock sufficiency, row locked until commit
	for _, it := range items {
		totalQty, onRent, ok, lerr := lockStockRow(ctx, tx, it.PlateSize)
		if lerr != nil {
			err = lerr
			return err
		}
		if !ok {
			continue
		}
		if totalQty-onRent < it.Quantity && !override {
			err = NewInsufficientStockError(it.PlateSize)
			return err
		}
		if err = adjustOnRent(ctx, tx, it.PlateSize, it.Quantity); err != nil {
			return err
		}
	}

	// 2. header; the unique index on challan_number is the authoritative
	// duplicate check
	const q = `
	INSERT INTO challans (challan_ulid, challan_number, client_id, issue_date, status, created_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
	res, execErr := tx.ExecContext(ctx, q, ch.ChallanULID, ch.ChallanNumber, ch.ClientID, ch.IssueDate, ch.Status)
	if execErr != nil {
		var me *mysql.MySQLError
		if errors.As(execErr, &me) && me.Number == 1062 {
			err = NewConflictError("challan number already in use")
			return err
		}
		err = execErr
		return err
	}
	id, _ := res.LastInsertId()
	ch.ChallanID = id

	// 3. items
	if err = insertItems(ctx, tx, id, items); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetWithItems(ctx context.Context, challanID int64) (*Challan, []ChallanItem, error) {
	const q = `
	SELECT challan_id, challan_ulid, challan_number, client_id, issue_date, status, created_at
	FROM challans WHERE challan_id = ?`
	var ch Challan
	err := s.db.QueryRowContext(ctx, q, challanID).Scan(
		&ch.ChallanID, &ch.ChallanULID, &ch.ChallanNumber, &ch.ClientID,
		&ch.IssueDate, &ch.Status, &ch.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, NewNotFoundError("challan not found")
	}
	if err != nil {
		return nil, nil, err
	}

	items, err := s.itemsOf(ctx, challanID)
	if err != nil {
		return nil, nil, err
	}
	return &ch, items, nil
}

func (s *Store) itemsOf(ctx context.Context, challanID int64) ([]ChallanItem, error) {
	const q = `
	SELECT item_id, challan_id, plate_size, quantity, note
	FROM challan_items WHERE challan_id = ? ORDER BY item_id`
	rows, err := s.db.QueryContext(ctx, q, challanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChallanItem
	for rows.Next() {
		var it ChallanItem
		if err := rows.Scan(&it.ItemID, &it.ChallanID, &it.PlateSize, &it.Quantity, &it.Note); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, f ChallanFilter, p Page) ([]Challan, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE 1=1`)
	args := []any{}
	if f.ClientID != nil {
		where.WriteString(` AND client_id = ?`)
		args = append(args, *f.ClientID)
	}
	if f.Number != nil {
		where.WriteString(` AND challan_number = ?`)
		args = append(args, *f.Number)
	}
	if f.From != nil {
		where.WriteString(` AND issue_date >= ?`)
		args = append(args, *f.From)
	}
	if f.To != nil {
		where.WriteString(` AND issue_date < ?`)
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
	SELECT challan_id, challan_ulid, challan_number, client_id, issue_date, status, created_at
	FROM challans%s ORDER BY issue_date %s, challan_id %s LIMIT ? OFFSET ?`, where.String(), order, order)

	rows, err := s.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Challan
	for rows.Next() {
		var ch Challan
		if err := rows.Scan(&ch.ChallanID, &ch.ChallanULID, &ch.ChallanNumber, &ch.ClientID,
			&ch.IssueDate, &ch.Status, &ch.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM challans`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ItemsFor loads the items of several challans in one query.
func (s *Store) ItemsFor(ctx context.Context, ids []int64) (map[int64][]ChallanItem, error) {
	out := make(map[int64][]ChallanItem)
	if len(ids) == 0 {
		return out, nil
	}

	ph := strings.Repeat("?,", len(ids))
	ph = ph[:len(ph)-1]
	q := fmt.Sprintf(`
	SELECT item_id, challan_id, plate_size, quantity, note
	FROM challan_items WHERE challan_id IN (%s) ORDER BY item_id`, ph)

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
		var it ChallanItem
		if err := rows.Scan(&it.ItemID, &it.ChallanID, &it.PlateSize, &it.Quantity, &it.Note); err != nil {
			return nil, err
		}
		out[it.ChallanID] = append(out[it.ChallanID], it)
	}
	return out, rows.Err()
}

func sumBySize(items []ChallanItem) map[string]int {
	m := make(map[string]int)
	for _, it := range items {
		m[it.PlateSize] += it.Quantity
	}
	return m
}

// ExecUpdate edits the header and, when req.Items is set, replaces the
// line items. Everything happens in one transaction so a failure cannot
// leave the challan without its items, and the stock projection moves by
// the per-size delta between the old and new item sets.
func (s *Store) ExecUpdate(ctx context.Context, challanID int64, req UpdateChallanRequest, issueDate *time.Time) error {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM challans WHERE challan_id = ? FOR UPDATE`, challanID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		err = NewNotFoundError("challan not found")
		return err
	}
	if err != nil {
		return err
	}

	sets := []string{}
	args := []any{}
	if req.ChallanNumber != nil {
		sets = append(sets, "challan_number = ?")
		args = append(args, *req.ChallanNumber)
	}
	if req.ClientID != nil {
		sets = append(sets, "client_id = ?")
		args = append(args, *req.ClientID)
	}
	if issueDate != nil {
		sets = append(sets, "issue_date = ?")
		args = append(args, *issueDate)
	}
	if len(sets) > 0 {
		q := fmt.Sprintf(`UPDATE challans SET %s WHERE challan_id = ?`, strings.Join(sets, ", "))
		if _, execErr := tx.ExecContext(ctx, q, append(args, challanID)...); execErr != nil {
			var me *mysql.MySQLError
			if errors.As(execErr, &me) && me.Number == 1062 {
				err = NewConflictError("challan number already in use")
				return err
			}
			err = execErr
			return err
		}
	}

	if req.Items != nil {
		old, ierr := itemsOfTx(ctx, tx, challanID)
		if ierr != nil {
			err = ierr
			return err
		}

		if _, err = tx.ExecContext(ctx, `DELETE FROM challan_items WHERE challan_id = ?`, challanID); err != nil {
			return err
		}
		if err = insertItems(ctx, tx, challanID, req.Items); err != nil {
			return err
		}

		oldSums := sumBySize(old)
		newSums := make(map[string]int)
		for _, it := range req.Items {
			newSums[it.PlateSize] += it.Quantity
		}
		for size, qty := range newSums {
			if delta := qty - oldSums[size]; delta != 0 {
				if err = adjustOnRent(ctx, tx, size, delta); err != nil {
					return err
				}
			}
		}
		for size, qty := range oldSums {
			if _, still := newSums[size]; !still {
				if err = adjustOnRent(ctx, tx, size, -qty); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// ExecDelete removes items and header in one transaction and releases
// the on-rent quantities back to stock.
func (s *Store) ExecDelete(ctx context.Context, challanID int64) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	old, err := itemsOfTx(ctx, tx, challanID)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM challan_items WHERE challan_id = ?`, challanID); err != nil {
		return err
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM challans WHERE challan_id = ?`, challanID)
	if execErr != nil {
		err = execErr
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = NewNotFoundError("challan not found")
		return err
	}

	for size, qty := range sumBySize(old) {
		if err = adjustOnRent(ctx, tx, size, -qty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func itemsOfTx(ctx context.Context, tx *sql.Tx, challanID int64) ([]ChallanItem, error) {
	const q = `
	SELECT item_id, challan_id, plate_size, quantity, note
	FROM challan_items WHERE challan_id = ? ORDER BY item_id`
	rows, err := tx.QueryContext(ctx, q, challanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChallanItem
	for rows.Next() {
		var it ChallanItem
		if err := rows.Scan(&it.ItemID, &it.ChallanID, &it.PlateSize, &it.Quantity, &it.Note); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
