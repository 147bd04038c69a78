package testsupport

import (
	"testing"

	"srtkit/internal/config"
	"srtkit/internal/history"
)

// MustOpenHistory opens the history store configured in cfg and registers
// cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
