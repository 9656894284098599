package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/hearing-scheduler/internal/persistence"
	"github.com/example/hearing-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style tests.
type SQLiteHarness struct {
	Storage    *sqlite.Storage
	Candidates persistence.CandidateRepository
	Slots      persistence.SlotRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// Reserve stores every reference to schedules pair, failing the test on error.
func (h *SQLiteHarness) Reserve(tb testing.TB, slots map[string][]string) {
	tb.Helper()
	for ref, schedules := range slots {
		for _, schedule := range schedules {
			err := h.Slots.ReserveSlot(context.Background(), persistence.BookingSlot{
				BookingReference: ref,
				CourtScheduleID:  schedule,
				ReservedAt:       ReferenceTime(),
			})
			if err != nil {
				tb.Fatalf("failed to reserve %s/%s: %v", ref, schedule, err)
			}
		}
	}
}

// NewSQLiteHarness opens a migrated database in a temporary directory. The
// harness is closed automatically when the test ends.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "listing.db")

	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if _, err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:    storage,
		Candidates: storage,
		Slots:      storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
