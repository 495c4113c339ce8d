package main

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

	"github.com/leca/image-store/internal/config"
	"github.com/leca/image-store/internal/logging"
	"github.com/leca/image-store/internal/router"
	"github.com/leca/image-store/internal/store"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	configPath string
	addr       string
	backend    string
	seedPath   string
	seedSet    bool
}

func newRootCmd() *cobra.Command {
	flags := &serveFlags{}

	root := &cobra.Command{
		Use:           "imagestore",
		Short:         "An in-memory HTTP store for JPEG images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.seedSet = cmd.Flags().Changed("seed")
			return serve(cmd.Context(), flags)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.seedSet = cmd.Flags().Changed("seed")
			return serve(cmd.Context(), flags)
		},
	}

	for _, c := range []*cobra.Command{root, serveCmd} {
		c.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML config file (default $IMG_CONFIG_FILE)")
		c.Flags().StringVar(&flags.addr, "addr", "", "listen address, overrides config")
		c.Flags().StringVar(&flags.backend, "backend", "", "store backend: memory or sqlite, overrides config")
		c.Flags().StringVar(&flags.seedPath, "seed", "", "image loaded as the first record at startup, overrides config; empty disables seeding")
	}
	root.AddCommand(serveCmd)
	return root
}

func serve(ctx context.Context, flags *serveFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.ListenAddr = flags.addr
	}
	if flags.backend != "" {
		cfg.StoreBackend = flags.backend
	}
	if flags.seedSet {
		cfg.SeedPath = flags.seedPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	st, err := store.New(cfg.StoreBackend, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	seedStore(st, cfg.SeedPath, logger)

	srv := router.New(st, cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ListenAddr, "backend", cfg.StoreBackend)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// seedStore loads the image at path as the first record. A failure is only
// logged; the server starts with an empty store instead.
func seedStore(st store.Store, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	id, err := store.LoadSeed(st, path)
	if err != nil {
		logger.Warn("seed image not loaded", "path", path, "error", err)
		return
	}
	logger.Info("seed image loaded", "path", path, "image_id", id)
}
