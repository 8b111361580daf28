package docgen

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// IssueDocument loads an issue challan with its client and line items by
// challan number.
func (s *Store) IssueDocument(ctx context.Context, number string) (*Document, error) {
	const q = `
	SELECT ch.challan_id, ch.challan_number, ch.issue_date,
	       c.client_id, c.name, c.site, c.mobile
	FROM challans ch
	JOIN clients c ON c.client_id = ch.client_id
	WHERE ch.challan_number = ?`

	doc := Document{Type: TypeIssue}
	var challanID int64
	err := s.db.QueryRowContext(ctx, q, number).Scan(
		&challanID, &doc.Number, &doc.Date,
		&doc.ClientID, &doc.ClientName, &doc.Site, &doc.Mobile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("challan not found")
	}
	if err != nil {
		return nil, err
	}

	const iq = `
	SELECT plate_size, quantity, note FROM challan_items
	WHERE challan_id = ? ORDER BY item_id`
	doc.Lines, err = s.lines(ctx, iq, challanID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReturnDocument mirrors IssueDocument for the Jama side.
func (s *Store) ReturnDocument(ctx context.Context, number string) (*Document, error) {
	const q = `
	SELECT r.return_id, r.return_number, r.return_date,
	       c.client_id, c.name, c.site, c.mobile
	FROM returns r
	JOIN clients c ON c.client_id = r.client_id
	WHERE r.return_number = ?`

	doc := Document{Type: TypeReturn}
	var returnID int64
	err := s.db.QueryRowContext(ctx, q, number).Scan(
		&returnID, &doc.Number, &doc.Date,
		&doc.ClientID, &doc.ClientName, &doc.Site, &doc.Mobile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("return challan not found")
	}
	if err != nil {
		return nil, err
	}

	const iq = `
	SELECT plate_size, quantity, damage_note FROM return_line_items
	WHERE return_id = ? ORDER BY item_id`
	doc.Lines, err = s.lines(ctx, iq, returnID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) lines(ctx context.Context, query string, id int64) ([]Line, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		var note sql.NullString
		if err := rows.Scan(&l.PlateSize, &l.Quantity, &note); err != nil {
			return nil, err
		}
		l.Note = note.String
		out = append(out, l)
	}
	return out, rows.Err()
}
