package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
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

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func (s *Service) Create(ctx context.Context, in CreateClientRequest) (*ClientResponse, error) {
	if strings.TrimSpace(in.ClientID) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalid("client_id and name are required")
	}

	if err := s.store.Insert(ctx, in); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrConflict("client_id already exists")
		}
		return nil, err
	}
	return s.store.GetByID(ctx, in.ClientID)
}

func (s *Service) Get(ctx context.Context, clientID string) (*ClientResponse, error) {
	return s.store.GetByID(ctx, clientID)
}

func (s *Service) List(ctx context.Context, search string, p Page) ([]ClientResponse, int64, error) {
	return s.store.List(ctx, search, p)
}

func (s *Service) Update(ctx context.Context, clientID string, in UpdateClientRequest) (*ClientResponse, error) {
	if in.Name == nil && in.Site == nil && in.Mobile == nil {
		return nil, ErrInvalid("nothing to update")
	}
	n, err := s.store.Update(ctx, clientID, in)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound("client not found")
	}
	return s.store.GetByID(ctx, clientID)
}

func (s *Service) Delete(ctx context.Context, clientID string) error {
	n, err := s.store.Delete(ctx, clientID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("client not found")
	}
	return nil
}
