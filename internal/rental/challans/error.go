package challans

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
)

type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidArgumentError(msg string) error {
	return &DomainError{Code: CodeInvalidArgument, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &DomainError{Code: CodeConflict, Message: msg}
}

// NewInsufficientStockError blocks an issue that would exceed available
// stock when no override note was supplied.
func NewInsufficientStockError(plateSize string) error {
	return &DomainError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for %s, add an override note to force", plateSize),
	}
}

func ToHTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict, CodeInsufficientStock:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
