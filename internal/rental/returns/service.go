package returns

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

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

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
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

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Service struct {
	store *Store
	hub   *events.Hub
	id    IDGen
}

func NewService(db *sql.DB, hub *events.Hub) *Service {
	return &Service{store: NewStore(db), hub: hub, id: ulidGen{}}
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrInvalid("at least one item is required")
	}
	for _, it := range items {
		if strings.TrimSpace(it.PlateSize) == "" {
			return ErrInvalid("plate_size is required on every item")
		}
		if it.Quantity < 0 {
			return ErrInvalid("quantity must be >= 0")
		}
	}
	return nil
}

// SuggestNumber works like the issue side but over the independent
// return number class. Falls back to "1" when the scan fails.
func (s *Service) SuggestNumber(ctx context.Context) string {
	nums, err := s.store.ListNumbers(ctx)
	if err != nil {
		logging.LogError("returns", "SuggestNumber", err)
		return "1"
	}
	return numbering.Next(nums)
}

// Create records a Jama challan. Over-return is allowed: the ledger may
// go negative for a size, the stock projection only floors at zero.
func (s *Service) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, ErrInvalid("client_id is required")
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	returnDate, err := time.Parse("2006-01-02", req.ReturnDate)
	if err != nil {
		return nil, ErrInvalid("invalid return_date format, expected YYYY-MM-DD")
	}

	number := strings.TrimSpace(req.ReturnNumber)
	if number == "" {
		number = s.SuggestNumber(ctx)
	}

	exists, err := s.store.NumberExists(ctx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict("return number already in use")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	ret := &ReturnChallan{
		ReturnULID:   idStr,
		ReturnNumber: number,
		ClientID:     req.ClientID,
		ReturnDate:   returnDate,
	}

	if err := s.store.ExecCreate(ctx, ret, req.Items); err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, "returns", "create")
	return s.Get(ctx, ret.ReturnID)
}

func (s *Service) Get(ctx context.Context, returnID int64) (*ReturnResponse, error) {
	ret, items, err := s.store.GetWithItems(ctx, returnID)
	if err != nil {
		return nil, err
	}
	resp := buildResponse(ret, items)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, f ReturnFilter, p Page) ([]ReturnResponse, int64, error) {
	list, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ReturnID)
	}
	itemsByID, err := s.store.ItemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, buildResponse(&r, itemsByID[r.ReturnID]))
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, returnID int64, req UpdateReturnRequest) (*ReturnResponse, error) {
	if req.ReturnNumber == nil && req.ClientID == nil && req.ReturnDate == nil && req.Items == nil {
		return nil, ErrInvalid("nothing to update")
	}
	if req.Items != nil {
		if err := validateItems(req.Items); err != nil {
			return nil, err
		}
	}

	var returnDate *time.Time
	if req.ReturnDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ReturnDate)
		if err != nil {
			return nil, ErrInvalid("invalid return_date format, expected YYYY-MM-DD")
		}
		returnDate = &parsed
	}

	if err := s.store.ExecUpdate(ctx, returnID, req, returnDate); err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, "returns", "update")
	return s.Get(ctx, returnID)
}

func (s *Service) Delete(ctx context.Context, returnID int64) error {
	if err := s.store.ExecDelete(ctx, returnID); err != nil {
		return err
	}
	s.hub.Publish(ctx, "returns", "delete")
	return nil
}

// ===== helpers =====

func buildResponse(ret *ReturnChallan, items []ReturnLineItem) ReturnResponse {
	resp := ReturnResponse{
		ReturnID:     ret.ReturnID,
		ReturnULID:   ret.ReturnULID,
		ReturnNumber: ret.ReturnNumber,
		ClientID:     ret.ClientID,
		ReturnDate:   ret.ReturnDate,
		CreatedAt:    ret.CreatedAt,
	}
	for _, it := range items {
		ir := ItemResponse{PlateSize: it.PlateSize, Quantity: it.Quantity}
		if it.DamageNote.Valid {
			v := it.DamageNote.String
			ir.DamageNote = &v
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
