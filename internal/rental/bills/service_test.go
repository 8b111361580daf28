package bills

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateRejectsBadDate(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.Create(context.Background(), CreateBillRequest{
		BillNumber: "1",
		ClientID:   "C1",
		BillDate:   "01-02-2024",
	})
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeInvalidArgument {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestCreateRejectsNegativeAmount(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.Create(context.Background(), CreateBillRequest{
		BillNumber: "1",
		ClientID:   "C1",
		BillDate:   "2024-02-01",
		Amount:     decimal.NewFromInt(-5),
	})
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeInvalidArgument {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(nil, nil)
	bad := "overdue"
	_, err := svc.Update(context.Background(), 1, UpdateBillRequest{Status: &bad})
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeInvalidArgument {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}
