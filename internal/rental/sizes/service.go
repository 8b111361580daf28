package sizes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

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
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

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

func parseBoolish(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "1" || s == "true" || s == "yes" || s == "all"
}

func normalizeLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrInvalid("label is required")
	}
	return label, nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

func (s *Service) List(ctx context.Context, all string) ([]PlateSize, error) {
	return s.store.List(ctx, parseBoolish(all))
}

func (s *Service) Get(ctx context.Context, id uint) (*PlateSize, error) {
	ps, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("size not found")
		}
		return nil, ErrInternal("failed to get size")
	}
	return ps, nil
}

func (s *Service) Create(ctx context.Context, label string, sortOrder int) (*PlateSize, error) {
	l, err := normalizeLabel(label)
	if err != nil {
		return nil, err
	}

	ps, err := s.store.Create(ctx, l, sortOrder)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict("size label already exists")
		}
		return nil, ErrInternal("failed to create size")
	}
	s.hub.Publish(ctx, "plate_sizes", "create")
	return ps, nil
}

func (s *Service) Update(ctx context.Context, id uint, req UpdateSizeRequest) (*PlateSize, error) {
	l, err := normalizeLabel(req.Label)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, id, l, req.SortOrder, req.IsDisabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("size not found")
		}
		if isDuplicateKey(err) {
			return nil, ErrConflict("size label already exists")
		}
		return nil, ErrInternal("failed to update size")
	}
	s.hub.Publish(ctx, "plate_sizes", "update")
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Disable(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound("size not found")
		}
		return ErrInternal("failed to delete size")
	}
	s.hub.Publish(ctx, "plate_sizes", "delete")
	return nil
}
