package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/api"
	"github.com/codewithboateng/seqsift/internal/metrics"
	"github.com/codewithboateng/seqsift/internal/modules"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and Prometheus metrics",
	RunE:  runServeCmd,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	addr := serveAddr
	if addr == "" {
		addr = cfg.API.Addr
	}

	if err := loadPatternPacks(cfg.Patterns.Packs); err != nil {
		return err
	}
	applyModuleSettings(cfg.Patterns.Disabled, cfg.Patterns.Only)

	metrics.RegisterScanMetrics()
	metrics.SetPatternsLoaded(modules.PatternCount())
	metrics.SetModulesEnabled(len(modules.List()))

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          slog.Default(),
		AllowedOrigins:  cfg.API.AllowedOrigins,
		SessionDuration: time.Duration(cfg.API.SessionMinutes) * time.Minute,
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
