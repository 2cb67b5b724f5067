package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/spf13/cobra"

	"taskboard/internal/auth"
	"taskboard/internal/server"
	"taskboard/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address, overrides TASKBOARD_ADDR")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	logger.Info("taskboard", slog.String("version", version))

	credentials, err := auth.NewCredentials(store, cfg.BcryptCost)
	if err != nil {
		return err
	}
	sessionStore := sqlite3store.NewWithCleanupInterval(store.DB(), 5*time.Minute)
	defer sessionStore.StopCleanup()
	sessions := session.New(sessionStore, session.Options{Lifetime: cfg.SessionLifetime, CookieSecure: cfg.CookieSecure})

	srv := server.New(store, credentials, sessions, logger, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	case <-quit:
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return nil
}
