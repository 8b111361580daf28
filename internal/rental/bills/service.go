package bills

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"CPMS-backend/internal/platform/events"
	"CPMS-backend/internal/platform/logging"
	"CPMS-backend/internal/rental/numbering"
)

// ===== Error model =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store *Store
	hub   *events.Hub
	clock Clock
}

func NewService(db *sql.DB, hub *events.Hub) *Service {
	return &Service{store: NewStore(db), hub: hub, clock: realClock{}}
}

// SuggestNumber proposes the next free bill number from the numbers
// already on record. Suggestion only, uniqueness is enforced on insert.
func (s *Service) SuggestNumber(ctx context.Context) string {
	numbers, err := s.store.ListNumbers(ctx)
	if err != nil {
		logging.LogError("bills", "SuggestNumber", err)
		return "1"
	}
	return numbering.Next(numbers)
}

func (s *Service) Create(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	billDate, err := time.Parse("2006-01-02", req.BillDate)
	if err != nil {
		return nil, ErrInvalid("bill_date must be YYYY-MM-DD")
	}
	if req.Amount.IsNegative() {
		return nil, ErrInvalid("amount must not be negative")
	}

	b := &Bill{
		BillNumber: req.BillNumber,
		ClientID:   req.ClientID,
		BillDate:   billDate,
		Amount:     req.Amount,
		Status:     StatusUnpaid,
		CreatedAt:  s.clock.Now(),
	}
	if req.Note != nil {
		b.Note = sql.NullString{String: *req.Note, Valid: true}
	}

	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	s.hub.Publish(ctx, "bills", "create")
	return toResponse(b), nil
}

func (s *Service) Get(ctx context.Context, billID int64) (*BillResponse, error) {
	b, err := s.store.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	return toResponse(b), nil
}

// List returns bills, newest first, optionally scoped to one client.
func (s *Service) List(ctx context.Context, clientID string, p Page) ([]*BillResponse, int64, error) {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	items, total, err := s.store.List(ctx, clientID, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*BillResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, billID int64, req UpdateBillRequest) (*BillResponse, error) {
	var billDate *time.Time
	if req.BillDate != nil {
		d, err := time.Parse("2006-01-02", *req.BillDate)
		if err != nil {
			return nil, ErrInvalid("bill_date must be YYYY-MM-DD")
		}
		billDate = &d
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, ErrInvalid("amount must not be negative")
	}
	if req.Status != nil && *req.Status != StatusPaid && *req.Status != StatusUnpaid {
		return nil, ErrInvalid("status must be paid or unpaid")
	}

	if err := s.store.Update(ctx, billID, billDate, req.Amount, req.Note, req.Status); err != nil {
		return nil, err
	}
	s.hub.Publish(ctx, "bills", "update")
	return s.Get(ctx, billID)
}

func (s *Service) Delete(ctx context.Context, billID int64) error {
	if err := s.store.Delete(ctx, billID); err != nil {
		return err
	}
	s.hub.Publish(ctx, "bills", "delete")
	return nil
}
