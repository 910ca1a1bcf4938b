package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opalaxis/beamsolopex-companion/internal/core/container"
	"github.com/opalaxis/beamsolopex-companion/internal/core/routes"
	"github.com/opalaxis/beamsolopex-companion/internal/fixture"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFixtureCommand(opts *rootOptions) *cobra.Command {
	fixtureCmd := &cobra.Command{
		Use:   "fixture",
		Short: "In-memory backend for development and demos",
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the seeded in-memory backend",
		Long: `Serves the receipt, asset and lookup resources from a seeded in-memory store
under /api, with login at /api/auth/login and a /health probe.
Seeded accounts: admin@example.com/admin123, clerk@example.com/clerk123,
viewer@example.com/viewer123.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadBase(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := cfg.ValidateFixture(); err != nil {
				return err
			}
			if addr != "" {
				cfg.Fixture.Addr = addr
			}
			if !opts.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := fixture.NewMemoryStore()
			if err := store.Seed(); err != nil {
				return err
			}
			c := container.NewAppContainer(ctx, store, container.Options{
				JWTSecret: cfg.Fixture.JWTSecret,
				TokenTTL:  cfg.Fixture.TokenTTL,
				Version:   Version,
			}, log)

			srv := &http.Server{
				Addr:         cfg.Fixture.Addr,
				Handler:      routes.NewRouter(c),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("Fixture backend listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				return err
			case <-ctx.Done():
			}

			log.Info("Shutting down fixture backend")
			c.Health.SetStatus("shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default fixture.addr)")

	fixtureCmd.AddCommand(serveCmd)
	return fixtureCmd
}
