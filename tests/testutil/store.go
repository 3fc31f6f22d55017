package testutil

import (
	"testing"

	"github.com/nhle/taskdash/internal/store"
)

// NewTestKV creates an in-memory KVStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestKV(t *testing.T) *store.KVStore {
	t.Helper()

	s, err := store.NewKVStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
