package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Page struct {
	Limit  int
	Offset int
	Order  string
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, in CreateClientRequest) error {
	const q = `
	INSERT INTO clients (client_id, name, site, mobile, created_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`
	_, err := s.db.ExecContext(ctx, q, in.ClientID, in.Name, in.Site, in.Mobile)
	return err
}

func (s *Store) GetByID(ctx context.Context, clientID string) (*ClientResponse, error) {
	const q = `
	SELECT client_id, name, site, mobile, created_at
	FROM clients WHERE client_id = ?`
	var out ClientResponse
	if err := s.db.QueryRowContext(ctx, q, clientID).Scan(
		&out.ClientID, &out.Name, &out.Site, &out.Mobile, &out.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("client not found")
		}
		return nil, err
	}
	return &out, nil
}

func (s *Store) List(ctx context.Context, search string, p Page) ([]ClientResponse, int64, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT client_id, name, site, mobile, created_at
	FROM clients WHERE 1=1`)

	args := []any{}
	if search != "" {
		sb.WriteString(` AND (client_id LIKE ? OR name LIKE ?)`)
		pat := "%" + search + "%"
		args = append(args, pat, pat)
	}
	order := "ASC"
	if strings.ToLower(p.Order) == "desc" {
		order = "DESC"
	}
	sb.WriteString(fmt.Sprintf(` ORDER BY name %s`, order))
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	sb.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ClientResponse
	for rows.Next() {
		var r ClientResponse
		if err := rows.Scan(&r.ClientID, &r.Name, &r.Site, &r.Mobile, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	cq := `SELECT COUNT(*) FROM clients WHERE 1=1`
	argsCnt := []any{}
	if search != "" {
		cq += ` AND (client_id LIKE ? OR name LIKE ?)`
		pat := "%" + search + "%"
		argsCnt = append(argsCnt, pat, pat)
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cq, argsCnt...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (s *Store) Update(ctx context.Context, clientID string, in UpdateClientRequest) (int64, error) {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Site != nil {
		sets = append(sets, "site = ?")
		args = append(args, *in.Site)
	}
	if in.Mobile != nil {
		sets = append(sets, "mobile = ?")
		args = append(args, *in.Mobile)
	}
	q := fmt.Sprintf(`UPDATE clients SET %s WHERE client_id = ?`, strings.Join(sets, ", "))
	args = append(args, clientID)

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, clientID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE client_id = ?`, clientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
