package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/example/hearing-scheduler/internal/application"
	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/persistence/sqlite"
)

func (c *cli) openDatabase() (*sqlite.Storage, error) {
	storage, err := sqlite.Open(c.cfg.SQLiteDSN, sqlite.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return storage, nil
}

// openStorage opens the configured database and applies pending migrations.
func (c *cli) openStorage(ctx context.Context) (*sqlite.Storage, error) {
	storage, err := c.openDatabase()
	if err != nil {
		return nil, err
	}
	if _, err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return storage, nil
}

func (c *cli) closeStorage(storage *sqlite.Storage) {
	if err := storage.Close(); err != nil {
		c.logger.Error("failed to close storage", "error", err)
	}
}

// courtsOption loads the committing court table named by path, if any.
func (c *cli) courtsOption(path string) ([]application.ListingServiceOption, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lookup, count, err := application.ReadCommittingCourts(f)
	if err != nil {
		return nil, err
	}
	c.logger.Info("committing courts loaded", "file", path, "offences", count)
	return []application.ListingServiceOption{application.WithCommittingCourts(lookup)}, nil
}

func (c *cli) retryPolicy() application.RetryPolicy {
	policy := application.DefaultRetryPolicy()
	policy.AttemptTimeout = c.cfg.RegistryTimeout
	policy.MaxAttempts = c.cfg.RegistryMaxAttempts
	return policy
}

func (c *cli) storageRegistry(storage *sqlite.Storage) listing.SlotRegistry {
	return application.NewRetryingSlotRegistry(application.NewRepositorySlotRegistry(storage), c.retryPolicy(), c.logger)
}

// readFile opens path and hands it to parse.
func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return parse(f)
}
