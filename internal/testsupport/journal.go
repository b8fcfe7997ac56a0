package testsupport

import (
	"testing"

	"flightrec/internal/config"
	"flightrec/internal/journal"
)

// MustOpenJournal opens the sync journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Journal {
	t.Helper()

	j, err := journal.Open(cfg.JournalPath())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}
