package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"baakh/internal/api"
	"baakh/internal/api/handlers"
	"baakh/internal/api/middlewares"
	"baakh/internal/database"
	"baakh/internal/dictionary"
	"baakh/pkg/config"
	"baakh/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "baakh server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.WithFields(map[string]interface{}{
		"version": handlers.Version,
		"config":  cfg.SanitizeForLogging(),
	}).Info("Starting Baakh text service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.HasDatabase() {
		db, err = database.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		log.Info("Database connected", "type", cfg.Database.Type)
	} else {
		log.Warning("No database configured; login and dictionary export are disabled")
	}

	store := dictionary.NewStore(cfg.Dictionary.Path)
	if err := store.Load(); err != nil {
		// Romanization still works from the character table alone.
		log.DictionaryLogger("load", cfg.Dictionary.Path, 0, err)
	} else {
		log.DictionaryLogger("load", cfg.Dictionary.Path, store.Len(), nil)
	}

	services, err := api.NewServices(db, store, log, cfg)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode())
	router := gin.New()
	limiter := middlewares.NewRateLimiter(cfg.API.RateLimit, cfg.API.BurstLimit)
	api.SetupRoutes(router, services, limiter)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening", "addr", srv.Addr, "tls", cfg.Server.TLS.Enabled)
		var err error
		if cfg.Server.TLS.Enabled {
			err = srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if cfg.Dictionary.Watch && cfg.Dictionary.Path != "" {
		watcher := dictionary.NewWatcher(store, cfg.Dictionary.Debounce, log)
		watcher.OnReload = func(stats dictionary.Stats, err error) {
			details := fmt.Sprintf("entries=%d", stats.Entries)
			if err != nil {
				details = "error: " + err.Error()
			}
			services.RecordAudit(gctx, database.AuditLog{
				Action:   "dictionary_reload",
				UserID:   "file_watcher",
				Resource: "dictionary",
				Details:  details,
			})
		}
		if err := watcher.Start(gctx); err != nil {
			log.Error("Dictionary watcher disabled", "error", err)
		} else {
			g.Go(func() error {
				<-watcher.Done()
				return nil
			})
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}
