package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/hopeconnect/pkg/core/services"
	"github.com/jakechorley/hopeconnect/pkg/web"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and the volunteer application form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			submitter := services.NewSimulatedSubmitter(app.Clock, app.Cfg.SubmissionDelay)
			srv, err := web.NewServer(app.Cfg, app.Logger, app.Clock, submitter, registry)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			go srv.Visits().Run(ctx)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.Logger.Info("Shutting down server", zap.Duration("timeout", app.Cfg.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil {
				return err
			}

			app.Logger.Info("Server stopped")
			return nil
		},
	}
}
