package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"CPMS-backend/internal/platform/events"
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

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }

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

type Service struct {
	store *Store
	hub   *events.Hub
}

func NewService(db *sql.DB, hub *events.Hub) *Service {
	return &Service{store: NewStore(db), hub: hub}
}

func (s *Service) Upsert(ctx context.Context, plateSize string, in UpsertStockRequest) (*StockResponse, error) {
	if strings.TrimSpace(plateSize) == "" {
		return nil, ErrInvalid("plate_size is required")
	}
	if in.TotalQty < 0 {
		return nil, ErrInvalid("total_qty must be >= 0")
	}
	if err := s.store.Upsert(ctx, plateSize, in.TotalQty); err != nil {
		return nil, err
	}
	s.hub.Publish(ctx, "stock", "upsert")
	return s.store.Get(ctx, plateSize)
}

func (s *Service) Get(ctx context.Context, plateSize string) (*StockResponse, error) {
	return s.store.Get(ctx, plateSize)
}

func (s *Service) List(ctx context.Context) ([]StockResponse, error) {
	return s.store.List(ctx)
}

func (s *Service) Delete(ctx context.Context, plateSize string) error {
	n, err := s.store.Delete(ctx, plateSize)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("stock row not found")
	}
	s.hub.Publish(ctx, "stock", "delete")
	return nil
}

// Rebuild recomputes on_rent for every plate size from the challan and
// return line items. The ledger totals are the source of truth; this
// repairs any drift in the projection.
func (s *Service) Rebuild(ctx context.Context) (*RebuildResponse, error) {
	n, err := s.store.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(ctx, "stock", "rebuild")
	return &RebuildResponse{Updated: n}, nil
}
