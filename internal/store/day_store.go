package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hvu/timeblock/internal/dayfile"
	"github.com/hvu/timeblock/internal/model"
)

// FileDayStore keeps one markdown document per calendar date under a
// data directory.
type FileDayStore struct {
	dir string
}

// NewFileDayStore creates the data directory if needed and returns a
// store rooted there.
func NewFileDayStore(dir string) (*FileDayStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileDayStore{dir: dir}, nil
}

// LoadDay reads and decodes the document for dateKey. A missing file
// yields an empty day, not an error.
func (s *FileDayStore) LoadDay(dateKey string) ([]model.Entry, error) {
	data, err := os.ReadFile(s.path(dateKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading day %s: %w", dateKey, err)
	}
	return dayfile.Unmarshal(data), nil
}

// SaveDay encodes and writes the full document for dateKey.
func (s *FileDayStore) SaveDay(dateKey string, entries []model.Entry) error {
	date, err := time.ParseInLocation("2006-01-02", dateKey, time.Local)
	if err != nil {
		return fmt.Errorf("invalid day key %q: %w", dateKey, err)
	}

	data := dayfile.Marshal(entries, date)
	if err := os.WriteFile(s.path(dateKey), data, 0o644); err != nil {
		return fmt.Errorf("writing day %s: %w", dateKey, err)
	}
	return nil
}

func (s *FileDayStore) path(dateKey string) string {
	return filepath.Join(s.dir, dateKey+".md")
}
