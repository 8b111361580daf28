package settings

import (
	"context"
	"database/sql"
	"errors"
)

const localeKey = "locale"

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Locale(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM settings WHERE setting_key = ?`, localeKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Store) SaveLocale(ctx context.Context, value string) error {
	const q = `
	INSERT INTO settings (setting_key, setting_value) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`
	_, err := s.db.ExecContext(ctx, q, localeKey, value)
	return err
}
