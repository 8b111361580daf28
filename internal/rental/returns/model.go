package returns

import (
	"database/sql"
	"time"
)

// ReturnChallan is one row of the returns table (a Jama challan).
type ReturnChallan struct {
	ReturnID     int64
	ReturnULID   string
	ReturnNumber string
	ClientID     string
	ReturnDate   time.Time
	CreatedAt    time.Time
}

// ReturnLineItem is one plate line of a return. Note carries the
// optional damage remark.
type ReturnLineItem struct {
	ItemID     int64
	ReturnID   int64
	PlateSize  string
	Quantity   int
	DamageNote sql.NullString
}

type ReturnFilter struct {
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
