package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/craigtrim/persona-api/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the personality HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" && a.Config != nil {
				addr = a.Config.Server.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.NewRouter(a.Service, a.logger()),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(cmd.Context(), srv, a.logger(), func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to the configured server.addr)")
	return cmd
}

// runServer serves until ctx is canceled, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, log *zap.Logger, ready func()) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	ready()
	log.Info("http server started", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
