package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/example/hearing-scheduler/internal/persistence"
	"github.com/example/hearing-scheduler/internal/persistence/sqlite/migration"
)

const (
	driverName     = "sqlite"
	dialectSQLite3 = "sqlite3"
	dateLayout     = "2006-01-02"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	_ persistence.CandidateRepository = (*Storage)(nil)
	_ persistence.SlotRepository      = (*Storage)(nil)
)

// Storage implements the persistence repositories on a SQLite database.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used for migrations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to the SQLite database identified by dsn. A plain file path
// is accepted as well as a "file:" URI with pragmas.
func Open(dsn string, opts ...Option) (*Storage, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}

	// SQLite serialises writers; a single connection avoids SQLITE_BUSY
	// and keeps ":memory:" databases alive for the pool's lifetime.
	db.SetMaxOpenConns(1)

	storage := &Storage{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(storage)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %q: %w", dsn, err)
	}
	return storage, nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending embedded migrations and returns how many ran.
func (s *Storage) Migrate(ctx context.Context) (int, error) {
	manager := migration.NewManager(
		migration.NewFileScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(s.db.DB),
		s.logger,
	)
	applied, err := manager.RunMigrations(ctx)
	if err != nil {
		return applied, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return applied, nil
}

// MigrationStatus reports applied and pending migrations.
func (s *Storage) MigrationStatus(ctx context.Context) (migration.Status, error) {
	manager := migration.NewManager(
		migration.NewFileScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(s.db.DB),
		s.logger,
	)
	return manager.Status(ctx)
}
