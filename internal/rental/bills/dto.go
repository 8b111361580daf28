package bills

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	BillNumber string          `json:"bill_number" binding:"required"`
	ClientID   string          `json:"client_id" binding:"required"`
	BillDate   string          `json:"bill_date" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note"`
}

type UpdateBillRequest struct {
	BillDate *string          `json:"bill_date"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     *string          `json:"note"`
	Status   *string          `json:"status"`
}

type BillResponse struct {
	BillID     int64           `json:"bill_id"`
	BillNumber string          `json:"bill_number"`
	ClientID   string          `json:"client_id"`
	BillDate   string          `json:"bill_date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note,omitempty"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

func toResponse(b *Bill) *BillResponse {
	res := &BillResponse{
		BillID:     b.BillID,
		BillNumber: b.BillNumber,
		ClientID:   b.ClientID,
		BillDate:   b.BillDate.Format("2006-01-02"),
		Amount:     b.Amount,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
	if b.Note.Valid {
		res.Note = &b.Note.String
	}
	return res
}
