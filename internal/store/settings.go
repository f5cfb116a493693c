package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Setting keys persisted by the UI.
const (
	SettingDaysInView      = "days_in_view"
	SettingHourHeight      = "hour_height"
	SettingPanelOpen       = "panel_open"
	SettingLastUpdateCheck = "last_update_check"
)

// SettingsStore persists lightweight UI settings in a local SQLite
// database.
type SettingsStore struct {
	db *sqlx.DB
}

// NewSettingsStore opens (or creates) the settings database at dbPath
// and runs any pending schema migrations.
func NewSettingsStore(dbPath string) (*SettingsStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SettingsStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SettingsStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SettingsStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Get returns the raw value for key, or "" when the key is unset.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores the raw value for key, replacing any previous value.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// DaysInView returns the persisted day-column count, clamped to 1..5.
func (s *SettingsStore) DaysInView() int {
	v, err := s.Get(SettingDaysInView)
	if err != nil || v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 5 {
		return 1
	}
	return n
}

// SetDaysInView persists the day-column count.
func (s *SettingsStore) SetDaysInView(n int) error {
	return s.Set(SettingDaysInView, strconv.Itoa(n))
}

// HourHeight returns the persisted zoom level in rows per hour, or the
// given fallback when unset or unreadable.
func (s *SettingsStore) HourHeight(fallback float64) float64 {
	v, err := s.Get(SettingHourHeight)
	if err != nil || v == "" {
		return fallback
	}
	h, err := strconv.ParseFloat(v, 64)
	if err != nil || h <= 0 {
		return fallback
	}
	return h
}

// SetHourHeight persists the zoom level.
func (s *SettingsStore) SetHourHeight(h float64) error {
	return s.Set(SettingHourHeight, strconv.FormatFloat(h, 'f', -1, 64))
}

// PanelOpen reports whether the auxiliary panel was open last session.
func (s *SettingsStore) PanelOpen() bool {
	v, err := s.Get(SettingPanelOpen)
	return err == nil && v == "1"
}

// SetPanelOpen persists the auxiliary panel state.
func (s *SettingsStore) SetPanelOpen(open bool) error {
	v := "0"
	if open {
		v = "1"
	}
	return s.Set(SettingPanelOpen, v)
}

// LastUpdateCheck returns when the release feed was last queried, or the
// zero time when it never was.
func (s *SettingsStore) LastUpdateCheck() time.Time {
	v, err := s.Get(SettingLastUpdateCheck)
	if err != nil || v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetLastUpdateCheck records an update-check timestamp.
func (s *SettingsStore) SetLastUpdateCheck(t time.Time) error {
	return s.Set(SettingLastUpdateCheck, t.UTC().Format(time.RFC3339))
}
