package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Manager runs pending migrations found by a FileScanner.
type Manager struct {
	scanner  *FileScanner
	executor *SQLiteExecutor
	logger   *slog.Logger
}

// NewManager wires a scanner and an executor.
func NewManager(scanner *FileScanner, executor *SQLiteExecutor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{scanner: scanner, executor: executor, logger: logger.With("component", "migration")}
}

// RunMigrations applies every pending migration in version order and
// returns the number applied. It stops at the first failure.
func (m *Manager) RunMigrations(ctx context.Context) (int, error) {
	started := time.Now()

	status, err := m.Status(ctx)
	if err != nil {
		return 0, err
	}
	if len(status.Pending) == 0 {
		m.logger.DebugContext(ctx, "schema up to date", "version", status.CurrentVersion)
		return 0, nil
	}

	for i, pending := range status.Pending {
		m.logger.InfoContext(ctx, "applying migration",
			"version", pending.Version,
			"description", pending.Description,
			"position", fmt.Sprintf("%d/%d", i+1, len(status.Pending)),
		)
		if err := m.executor.ExecuteMigration(ctx, pending); err != nil {
			m.logger.ErrorContext(ctx, "migration failed", "version", pending.Version, "error", err)
			return i, err
		}
	}

	m.logger.InfoContext(ctx, "migrations applied", "count", len(status.Pending), "duration", time.Since(started))
	return len(status.Pending), nil
}

// Status compares the scanned files with schema_migrations. An applied
// migration whose file checksum changed is reported as ErrChecksumMismatch.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return Status{}, err
	}

	available, err := m.scanner.ScanMigrations()
	if err != nil {
		return Status{}, err
	}
	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return Status{}, err
	}

	checksums := make(map[string]string, len(applied))
	status := Status{Applied: applied}
	for _, a := range applied {
		checksums[a.Version] = a.Checksum
		status.CurrentVersion = a.Version
	}

	for _, candidate := range available {
		checksum, ok := checksums[candidate.Version]
		if !ok {
			status.Pending = append(status.Pending, candidate)
			continue
		}
		if checksum != "" && checksum != candidate.Checksum {
			return Status{}, NewMigrationError(candidate.Version, candidate.FilePath, "verify checksum", ErrChecksumMismatch)
		}
	}
	return status, nil
}
