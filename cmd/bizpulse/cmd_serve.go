package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bizpulse/bizpulse/internal/server"
)

func newServeCmd() *cobra.Command {
	var listenAddr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local status server",
		Long:  "Serve /health, /score and /metrics locally, refreshing the insight snapshot on startup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if listenAddr == "" {
				listenAddr = app.cfg.Server.ListenAddr
			}
			return runServe(cmd.Context(), app, listenAddr)
		},
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config)")
	return serveCmd
}

func runServe(ctx context.Context, app *app, addr string) error {
	// Initial snapshot load is best-effort; /score reports 404 until one
	// exists.
	if err := app.manager.Fetch(ctx); err != nil {
		log.Warn().Err(err).Msg("initial insight fetch failed")
	}

	srv := server.New(addr, app.manager, app.poller, app.registry)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
