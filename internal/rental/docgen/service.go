// Package docgen renders printable challan images by compositing
// document data onto scanned book templates.
package docgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"CPMS-backend/internal/rental/settings"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

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
		default:
			return 500
		}
	}
	return 500
}

type Service struct {
	store    *Store
	renderer *Renderer
	settings *settings.Service
}

func NewService(db *sql.DB, renderer *Renderer, st *settings.Service) *Service {
	return &Service{store: NewStore(db), renderer: renderer, settings: st}
}

// Render produces the challan JPEG for one document. Labels follow the
// locale currently persisted in settings.
func (s *Service) Render(ctx context.Context, docType, number string) (*Document, []byte, error) {
	var (
		doc *Document
		err error
	)
	switch docType {
	case TypeIssue:
		doc, err = s.store.IssueDocument(ctx, number)
	case TypeReturn:
		doc, err = s.store.ReturnDocument(ctx, number)
	default:
		return nil, nil, ErrInvalid("type must be issue or return")
	}
	if err != nil {
		return nil, nil, err
	}

	img, err := s.renderer.Render(doc, s.settings.Resolver())
	if err != nil {
		return nil, nil, err
	}
	return doc, img, nil
}
