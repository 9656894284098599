package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hearing-scheduler/internal/application"
	httptransport "github.com/example/hearing-scheduler/internal/http"
	"github.com/example/hearing-scheduler/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the listing HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx)
		},
	}
}

// newServer wires storage, services and the router into an http.Server.
// The returned cleanup closes the storage.
func (c *cli) newServer(ctx context.Context) (*http.Server, func(), error) {
	storage, err := c.openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { c.closeStorage(storage) }

	courts, err := c.courtsOption(c.cfg.CommittingCourtsFile)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	m := metrics.New()
	opts := append([]application.ListingServiceOption{
		application.WithMetrics(m),
		application.WithLogger(c.logger),
	}, courts...)

	listingService := application.NewListingService(storage, c.storageRegistry(storage), opts...)
	slotService := application.NewSlotService(storage, time.Now, c.logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Listings: httptransport.NewListingHandler(listingService, c.logger),
		Slots:    httptransport.NewSlotHandler(slotService, c.logger),
		Metrics:  m.Handler(),
		Health:   storage.Ping,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(c.logger),
			httptransport.RequestMetrics(m),
		},
	})

	server := &http.Server{
		Addr:              c.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server, cleanup, nil
}

func (c *cli) runServe(ctx context.Context) error {
	server, cleanup, err := c.newServer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("listing API listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		c.logger.Error("failed to shutdown server", "error", err)
		return err
	}
	return nil
}
