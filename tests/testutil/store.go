package testutil

import (
	"testing"

	"github.com/hvu/timeblock/internal/store"
)

// NewTestSettingsStore creates an in-memory SettingsStore with all
// migrations applied. It automatically closes the store when the test
// completes.
func NewTestSettingsStore(t *testing.T) *store.SettingsStore {
	t.Helper()

	s, err := store.NewSettingsStore(":memory:")
	if err != nil {
		t.Fatalf("creating test settings store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test settings store: %v", err)
		}
	})

	return s
}

// NewTestDayStore creates a FileDayStore rooted in a temporary
// directory that is removed when the test completes.
func NewTestDayStore(t *testing.T) *store.FileDayStore {
	t.Helper()

	s, err := store.NewFileDayStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating test day store: %v", err)
	}
	return s
}
