// Package settings persists small app-wide preferences, currently just
// the display locale used on rendered challan documents.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"CPMS-backend/internal/platform/events"
	"CPMS-backend/internal/platform/i18n"
	"CPMS-backend/internal/platform/logging"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) && api.Code == CodeInvalidArgument {
		return 400
	}
	return 500
}

type Service struct {
	store *Store
	hub   *events.Hub

	mu     sync.RWMutex
	locale i18n.Locale
}

// NewService loads the persisted locale once at startup; defaultLocale
// covers a fresh database with no settings row yet.
func NewService(db *sql.DB, hub *events.Hub, defaultLocale string) *Service {
	s := &Service{store: NewStore(db), hub: hub}
	s.locale = i18n.ParseLocale(defaultLocale)

	if stored, err := s.store.Locale(context.Background()); err == nil && stored != "" {
		s.locale = i18n.ParseLocale(stored)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logging.LogError("settings", "NewService", err)
	}
	return s
}

func (s *Service) Locale() i18n.Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// Resolver returns a label resolver for the current locale.
func (s *Service) Resolver() *i18n.Resolver {
	return i18n.NewResolver(s.Locale())
}

func (s *Service) SetLocale(ctx context.Context, value string) (i18n.Locale, error) {
	if value != string(i18n.LocaleEnglish) && value != string(i18n.LocaleGujarati) {
		return "", ErrInvalid("locale must be en or gu")
	}
	loc := i18n.ParseLocale(value)
	if err := s.store.SaveLocale(ctx, string(loc)); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.locale = loc
	s.mu.Unlock()

	s.hub.Publish(ctx, "settings", "update")
	return loc, nil
}
