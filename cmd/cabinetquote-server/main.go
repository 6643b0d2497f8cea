// cabinetquote-server: HTTP quote service
//
// Serves part derivation and quote calculation over HTTP and archives every
// quote in SQLite. Settings come from the environment or a .env file:
//
//   PORT             listen port (8080)
//   DB_PATH          SQLite database (~/.cabinetquote/quotes.db)
//   CATALOG_PATH     price catalog JSON (~/.cabinetquote/catalog.json)
//   APP_CONFIG_PATH  workshop defaults JSON (~/.cabinetquote/config.json)
//   LOG_LEVEL        debug, info, warn or error
//
// Build:
//   go build -o cabinetquote-server ./cmd/cabinetquote-server

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/piwi3910/cabinetquote/internal/config"
	"github.com/piwi3910/cabinetquote/internal/project"
	"github.com/piwi3910/cabinetquote/internal/server"
	"github.com/piwi3910/cabinetquote/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := project.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	appCfg, err := project.LoadAppConfig(cfg.AppConfigPath)
	if err != nil {
		return fmt.Errorf("load app config: %w", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           server.New(st, cat, appCfg, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "db", cfg.DBPath, "catalog", cfg.CatalogPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
