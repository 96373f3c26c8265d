package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-king/bibliography/internal/config"
	"github.com/agent-king/bibliography/internal/handlers"
	"github.com/agent-king/bibliography/internal/workflow"
)

const shutdownGrace = 5 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port       string
		runTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an HTTP server that triggers runs",
		Long: `Starts an HTTP server so that a scheduler can trigger runs.

POST /api/run executes one pass and answers with its report; GET /api/runs
lists the reports kept since the server started.`,
		Example: `  agentking serve
  agentking serve --port 3000 --run-timeout 30m
  curl -X POST localhost:8888/api/run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if err := cfg.RequireCatalog(); err != nil {
				return err
			}

			handler := handlers.New(func(ctx context.Context) (*workflow.Report, error) {
				if runTimeout > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, runTimeout)
					defer cancel()
				}
				runner, err := newRunner(ctx, cfg, false)
				if err != nil {
					return nil, err
				}
				return runner.Run(ctx)
			})

			mux := http.NewServeMux()
			mux.HandleFunc("/api/run", handler.HandleRun)
			mux.HandleFunc("/api/runs", handler.HandleRuns)
			mux.HandleFunc("/api/runs/", handler.HandleRunDetail)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			return listen(cmd.Context(), &http.Server{
				Addr:              ":" + port,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().DurationVar(&runTimeout, "run-timeout", time.Hour, "Abort a triggered run after this long (0 for no limit)")

	return cmd
}

// listen serves until ctx is cancelled, then shuts the server down.
func listen(ctx context.Context, server *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Agent King listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "err", err)
		return err
	}
	slog.Info("Server stopped")
	return nil
}
