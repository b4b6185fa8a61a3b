package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"live-airlines/provisioner/internal/api"
	"live-airlines/provisioner/internal/auth"
	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/db"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/routes"
)

const (
	verifyCacheTTL  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func serveCmd(cfg *config.Config) *cobra.Command {
	var provisionOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schema status, run history and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, cfg, "serve")
			if err != nil {
				return err
			}
			defer a.close()

			if provisionOnStart {
				if _, err := a.provision.Provision(ctx); err != nil {
					return err
				}
			}

			upSince := time.Now()
			deps := &api.Dependencies{
				Database:  cfg.Mongo.Database,
				Schema:    a.provision,
				Cache:     common.NewCacheService(verifyCacheTTL, 2*verifyCacheTTL),
				VerifyTTL: verifyCacheTTL,
				Checks: map[string]api.HealthCheck{
					"mongodb": func(ctx context.Context) error { return db.PingMongo(ctx, a.mongo) },
				},
			}
			if a.redis != nil {
				deps.Checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
			}
			// a nil *ProvisionRunRepo must not end up inside the interface
			if a.history != nil {
				deps.History = a.history
				deps.Checks["history"] = a.history.Ping
			}

			router := routes.RegisterRoutes(deps, auth.NewTokenService([]byte(cfg.AdminJWTSecret)), a.metrics, routes.RouterOptions{
				AllowedOrigins:    cfg.HTTP.AllowedOrigins,
				RequestsPerSecond: 5,
				Burst:             20,
				UpSince:           upSince,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Info("Server starting", "addr", cfg.HTTP.Addr, "environment", cfg.AppEnv)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logging.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&provisionOnStart, "provision", false, "Provision the schema before serving")
	return cmd
}
