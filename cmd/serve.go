package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	serverhttp "github.com/bnema/spendshred/internal/adapters/server/http"
	chainstore "github.com/bnema/spendshred/internal/adapters/secrets/chain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var listen string
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the subscription store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !cmd.Flags().Changed("listen") {
				listen = app.cfg.Server.Listen
			}

			token, err := chainstore.Resolve(ctx, app.secretStore, app.cfg.Server.TokenRef)
			if err != nil {
				return fmt.Errorf("resolve server token: %w", err)
			}

			if seed {
				created, err := app.service.Seed(ctx)
				if err != nil {
					return err
				}
				if created > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d subscriptions\n", created)
				}
			}

			listener, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listen, err)
			}

			return serve(ctx, app, listener, token, cmd)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: server.listen)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load the demo portfolio first if the store is empty")

	return cmd
}

func serve(ctx context.Context, app *app, listener net.Listener, token string, cmd *cobra.Command) error {
	logger := app.logger.Named("http")
	handler := serverhttp.NewHandler(app.service,
		serverhttp.WithToken(token),
		serverhttp.WithLogger(logger),
	)

	server := &http.Server{
		Handler:           serverhttp.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving subscriptions on http://%s\n", listener.Addr())
	logger.Info("server started",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("auth", token != ""),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("server stopping")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
