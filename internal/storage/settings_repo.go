package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SettingsStore defines the interface for the user settings singleton.
type SettingsStore interface {
	// Get returns the settings singleton. Returns ErrNotFound if it has
	// never been written.
	Get(ctx context.Context) (*SettingsRecord, error)
	// Put inserts or replaces the settings singleton.
	Put(ctx context.Context, settings *SettingsRecord) error
}

// SettingsRepo provides methods for settings operations.
// It implements the SettingsStore interface.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the settings singleton. Returns ErrNotFound if absent.
func (r *SettingsRepo) Get(ctx context.Context) (*SettingsRecord, error) {
	var s SettingsRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, auto_play, auto_next, default_speed, theme FROM user_settings WHERE id = ?",
		SettingsID,
	).Scan(&s.ID, &s.AutoPlay, &s.AutoNext, &s.DefaultSpeed, &s.Theme)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	return &s, nil
}

// Put inserts or replaces the settings singleton. The record's ID is forced
// to the fixed singleton identifier.
func (r *SettingsRepo) Put(ctx context.Context, settings *SettingsRecord) error {
	settings.ID = SettingsID
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_settings (id, auto_play, auto_next, default_speed, theme)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		 auto_play = excluded.auto_play, auto_next = excluded.auto_next,
		 default_speed = excluded.default_speed, theme = excluded.theme`,
		settings.ID, settings.AutoPlay, settings.AutoNext, settings.DefaultSpeed, settings.Theme,
	)
	if err != nil {
		return fmt.Errorf("failed to put settings: %w", err)
	}
	return nil
}
