package bills

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	BillID     int64
	BillNumber string
	ClientID   string
	BillDate   time.Time
	Amount     decimal.Decimal
	Note       sql.NullString
	Status     string
	CreatedAt  time.Time
}

const (
	StatusUnpaid = "unpaid"
	StatusPaid   = "paid"
)

type Page struct {
	Limit  int
	Offset int
}
