package ledger

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Client(ctx context.Context, clientID string) (*ClientInfo, error) {
	const q = `SELECT client_id, name, site, mobile FROM clients WHERE client_id = ?`
	var c ClientInfo
	err := s.db.QueryRowContext(ctx, q, clientID).Scan(&c.ClientID, &c.Name, &c.Site, &c.Mobile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("client not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Clients(ctx context.Context) ([]ClientInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT client_id, name, site, mobile FROM clients ORDER BY client_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClientInfo
	for rows.Next() {
		var c ClientInfo
		if err := rows.Scan(&c.ClientID, &c.Name, &c.Site, &c.Mobile); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IssueDocs loads issue challans with their line items, for one client
// or for all clients when clientID is nil. Two queries joined in Go,
// the nested-select shape the frontend expects.
func (s *Store) IssueDocs(ctx context.Context, clientID *string) ([]IssueDoc, error) {
	q := `SELECT challan_id, challan_number, client_id, issue_date FROM challans`
	args := []any{}
	if clientID != nil {
		q += ` WHERE client_id = ?`
		args = append(args, *clientID)
	}
	q += ` ORDER BY issue_date DESC, challan_id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []IssueDoc
	index := make(map[int64]int)
	for rows.Next() {
		var d IssueDoc
		if err := rows.Scan(&d.ChallanID, &d.Number, &d.ClientID, &d.Date); err != nil {
			return nil, err
		}
		index[d.ChallanID] = len(docs)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	iq := `
	SELECT i.challan_id, i.plate_size, i.quantity, i.note
	FROM challan_items i`
	iargs := []any{}
	if clientID != nil {
		iq += ` JOIN challans c ON c.challan_id = i.challan_id WHERE c.client_id = ?`
		iargs = append(iargs, *clientID)
	}
	iq += ` ORDER BY i.item_id`

	irows, err := s.db.QueryContext(ctx, iq, iargs...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var challanID int64
		var it LineItem
		var note sql.NullString
		if err := irows.Scan(&challanID, &it.PlateSize, &it.Quantity, &note); err != nil {
			return nil, err
		}
		it.Note = note.String
		if idx, ok := index[challanID]; ok {
			docs[idx].Items = append(docs[idx].Items, it)
		}
	}
	return docs, irows.Err()
}

// ReturnDocs mirrors IssueDocs for the Jama side.
func (s *Store) ReturnDocs(ctx context.Context, clientID *string) ([]ReturnDoc, error) {
	q := `SELECT return_id, return_number, client_id, return_date FROM returns`
	args := []any{}
	if clientID != nil {
		q += ` WHERE client_id = ?`
		args = append(args, *clientID)
	}
	q += ` ORDER BY return_date DESC, return_id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []ReturnDoc
	index := make(map[int64]int)
	for rows.Next() {
		var d ReturnDoc
		if err := rows.Scan(&d.ReturnID, &d.Number, &d.ClientID, &d.Date); err != nil {
			return nil, err
		}
		index[d.ReturnID] = len(docs)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	iq := `
	SELECT i.return_id, i.plate_size, i.quantity, i.damage_note
	FROM return_line_items i`
	iargs := []any{}
	if clientID != nil {
		iq += ` JOIN returns r ON r.return_id = i.return_id WHERE r.client_id = ?`
		iargs = append(iargs, *clientID)
	}
	iq += ` ORDER BY i.item_id`

	irows, err := s.db.QueryContext(ctx, iq, iargs...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var returnID int64
		var it LineItem
		var note sql.NullString
		if err := irows.Scan(&returnID, &it.PlateSize, &it.Quantity, &note); err != nil {
			return nil, err
		}
		it.Note = note.String
		if idx, ok := index[returnID]; ok {
			docs[idx].Items = append(docs[idx].Items, it)
		}
	}
	return docs, irows.Err()
}

func (s *Store) countOf(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) CountClients(ctx context.Context) (int64, error) {
	return s.countOf(ctx, `SELECT COUNT(*) FROM clients`)
}

func (s *Store) CountChallans(ctx context.Context) (int64, error) {
	return s.countOf(ctx, `SELECT COUNT(*) FROM challans`)
}

func (s *Store) CountReturns(ctx context.Context) (int64, error) {
	return s.countOf(ctx, `SELECT COUNT(*) FROM returns`)
}

func (s *Store) CountBills(ctx context.Context) (int64, error) {
	return s.countOf(ctx, `SELECT COUNT(*) FROM bills`)
}

func (s *Store) StockSummary(ctx context.Context) (sizes, onRent int64, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(on_rent),0) FROM stock`).Scan(&sizes, &onRent)
	return sizes, onRent, err
}
