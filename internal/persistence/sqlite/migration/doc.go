// Package migration applies versioned schema changes to the listing store.
//
// Migrations are SQL files named {version}_{description}.sql (for example
// "001_initial_schema.sql") read from an fs.FS, usually an embedded
// directory. Applied versions and their checksums are tracked in the
// schema_migrations table; each pending migration runs in its own
// transaction, in ascending version order.
//
// Example usage:
//
//	manager := migration.NewManager(migration.NewFileScanner(migrationsFS, "migrations"), migration.NewSQLiteExecutor(db), logger)
//	if _, err := manager.RunMigrations(ctx); err != nil {
//		return fmt.Errorf("migrate: %w", err)
//	}
package migration
