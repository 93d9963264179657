package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clientdesk/internal/config"
	"clientdesk/internal/forms"
	"clientdesk/internal/logging"
	"clientdesk/internal/server"
	"clientdesk/internal/service"
	"clientdesk/internal/store"
)

var serveFlags struct {
	configPath string
	port       int
	dbPath     string
	driver     string
	seed       bool
	formsDir   string
	watch      bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the client API server",
	Long: `Run the client API server.

Configuration is read from the YAML file given by --config, then from
CLIENTDESK_* environment variables; flags override both.

Examples:
  # SQLite database with the sample clients
  clientdesk serve --db clients.db --seed

  # In-memory store with form schemas from ./forms
  clientdesk serve --driver memory --forms ./forms --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.configPath, "config", envOr("CLIENTDESK_CONFIG", ""), "YAML config file")
	f.IntVar(&serveFlags.port, "port", 3000, "HTTP listen port")
	f.StringVar(&serveFlags.dbPath, "db", "clientdesk.db", "SQLite database path")
	f.StringVar(&serveFlags.driver, "driver", store.DriverSQLite, "store driver (sqlite or memory)")
	f.BoolVar(&serveFlags.seed, "seed", true, "insert sample clients if the store is empty")
	f.StringVar(&serveFlags.formsDir, "forms", "", "directory of form schemas served under /forms")
	f.BoolVar(&serveFlags.watch, "watch", false, "reload form schemas when the directory changes")
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = serveFlags.port
	}
	if flags.Changed("db") {
		cfg.Store.Path = serveFlags.dbPath
	}
	if flags.Changed("driver") {
		cfg.Store.Driver = serveFlags.driver
	}
	if flags.Changed("seed") {
		cfg.Store.Seed = serveFlags.seed
	}
	if flags.Changed("forms") {
		cfg.Forms.Dir = serveFlags.formsDir
	}
	if flags.Changed("watch") {
		cfg.Forms.Watch = serveFlags.watch
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// ── Configuration ──────────────────────────────────────────────────────
	cfg, err := config.Read(serveFlags.configPath)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logging.Sync(logger) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Store ──────────────────────────────────────────────────────────────
	repo, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	if cfg.Store.Seed {
		empty, err := store.IsEmpty(ctx, repo)
		if err != nil {
			return fmt.Errorf("check store: %w", err)
		}
		if empty {
			logger.Info("seeding store with sample data")
			if err := store.SeedData(ctx, repo); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}

	clients, err := service.New(repo, logger, service.Options{UniqueEmail: cfg.Clients.UniqueEmail})
	if err != nil {
		return err
	}

	// ── Forms ──────────────────────────────────────────────────────────────
	var registry *forms.Registry
	if cfg.Forms.Dir != "" {
		registry = forms.NewRegistry(cfg.Forms.Dir, logger)
		if err := registry.Reload(ctx); err != nil {
			logger.Warn("some form schemas failed to load", zap.Error(err))
		}
		if cfg.Forms.Watch {
			go func() {
				if err := registry.Watch(ctx); err != nil {
					logger.Error("form watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	// ── Router ─────────────────────────────────────────────────────────────
	handler, err := server.New(clients, logger, server.Options{
		Version:     version,
		Environment: cfg.Server.Environment,
		Forms:       registry,
		Metrics:     server.NewMetrics(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	// ── Graceful shutdown ──────────────────────────────────────────────────
	done := make(chan struct{})
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
		close(done)
	}()

	logger.Info("clientdesk listening",
		zap.String("addr", srv.Addr),
		zap.String("environment", cfg.Server.Environment),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("unique_email", cfg.Clients.UniqueEmail),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	<-done
	logger.Info("server stopped")
	return nil
}
