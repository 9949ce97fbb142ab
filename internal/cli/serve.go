package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/handler"
	"github.com/fakhrymubarak/city-weather/internal/middleware"
	"github.com/fakhrymubarak/city-weather/internal/scheduler"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var noWarmup bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, !noWarmup)
		},
	}
	cmd.Flags().BoolVar(&noWarmup, "no-warmup", false, "do not refresh the major-city batch in the background")
	return cmd
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
	}
}

func serve(ctx context.Context, a *app, warmup bool) error {
	logger := config.GetLogger()
	svc := a.service()

	middleware.StartRateLimiterCleanup()
	if warmup {
		s := scheduler.New(svc, config.GetWarmupInterval())
		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()
	}

	srv := newServer(handler.NewRouter(handler.NewWeatherHandler(svc)))
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Weather API server running", "addr", srv.Addr)
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

	logger.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
		return err
	}
	logger.Infow("Server stopped")
	return nil
}
