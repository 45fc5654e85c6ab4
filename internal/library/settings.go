package library

import (
	"context"
	"errors"
	"fmt"

	"courseflow/internal/storage"
)

// defaultSettings are materialized on first read so later partial updates
// have a complete record to merge into.
func defaultSettings() *storage.SettingsRecord {
	return &storage.SettingsRecord{
		ID:           storage.SettingsID,
		AutoPlay:     true,
		AutoNext:     true,
		DefaultSpeed: 1,
		Theme:        "dark",
	}
}

// Settings returns the user settings singleton, creating it with defaults
// on first access.
func (s *Service) Settings(ctx context.Context) (*storage.SettingsRecord, error) {
	rec, err := s.settings.Get(ctx)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	rec = defaultSettings()
	if err := s.settings.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("initializing settings: %w", err)
	}
	return rec, nil
}

// SaveSettings replaces the user settings singleton.
func (s *Service) SaveSettings(ctx context.Context, rec *storage.SettingsRecord) (*storage.SettingsRecord, error) {
	if rec.DefaultSpeed <= 0 {
		return nil, &ValidationError{Field: "default_speed", Message: "playback speed must be positive"}
	}
	if rec.Theme == "" {
		return nil, &ValidationError{Field: "theme", Message: "theme is required"}
	}
	rec.ID = storage.SettingsID
	if err := s.settings.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}
	return rec, nil
}
