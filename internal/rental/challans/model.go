package challans

import (
	"database/sql"
	"time"
)

// Challan is one row of the challans table (an Udhar / issue challan).
// Status is stored for display compatibility but the ledger recomputes
// the live classification from balances on every query.
type Challan struct {
	ChallanID     int64
	ChallanULID   string
	ChallanNumber string
	ClientID      string
	IssueDate     time.Time
	Status        string
	CreatedAt     time.Time
}

// ChallanItem is one plate line of a challan.
type ChallanItem struct {
	ItemID    int64
	ChallanID int64
	PlateSize string
	Quantity  int
	Note      sql.NullString
}

// search conditions for the challan list
type ChallanFilter struct {
	ClientID *string
	Number   *string
	From     *time.Time
	To       *time.Time
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}
