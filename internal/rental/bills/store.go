package bills

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) ListNumbers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bill_number FROM bills`)
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

func (s *Store) Insert(ctx context.Context, b *Bill) error {
	const q = `
	INSERT INTO bills (bill_number, client_id, bill_date, amount, note, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		b.BillNumber, b.ClientID, b.BillDate, b.Amount, b.Note, b.Status, b.CreatedAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return ErrConflict("bill number already exists")
			case 1452:
				return ErrInvalid("client does not exist")
			}
		}
		return err
	}
	b.BillID, err = res.LastInsertId()
	return err
}

func (s *Store) Get(ctx context.Context, billID int64) (*Bill, error) {
	const q = `
	SELECT bill_id, bill_number, client_id, bill_date, amount, note, status, created_at
	FROM bills WHERE bill_id = ?`
	var b Bill
	err := s.db.QueryRowContext(ctx, q, billID).Scan(
		&b.BillID, &b.BillNumber, &b.ClientID, &b.BillDate, &b.Amount, &b.Note, &b.Status, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("bill not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) List(ctx context.Context, clientID string, p Page) ([]Bill, int64, error) {
	var (
		where strings.Builder
		args  []any
	)
	if clientID != "" {
		where.WriteString(` WHERE client_id = ?`)
		args = append(args, clientID)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bills`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
	SELECT bill_id, bill_number, client_id, bill_date, amount, note, status, created_at
	FROM bills` + where.String() + ` ORDER BY bill_date DESC, bill_id DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.BillID, &b.BillNumber, &b.ClientID, &b.BillDate,
			&b.Amount, &b.Note, &b.Status, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, billID int64, billDate *time.Time, amount *decimal.Decimal, note, status *string) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if billDate != nil {
		sets = append(sets, "bill_date = ?")
		args = append(args, *billDate)
	}
	if amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *amount)
	}
	if note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *note)
	}
	if status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *status)
	}
	if len(sets) == 0 {
		return nil
	}

	q := `UPDATE bills SET ` + strings.Join(sets, ", ") + ` WHERE bill_id = ?`
	res, err := s.db.ExecContext(ctx, q, append(args, billID)...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, billID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, billID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE bill_id = ?`, billID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound("bill not found")
	}
	return nil
}
