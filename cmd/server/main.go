// Package main is the entry point for the Property Manager server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/activity"
	"github.com/shanteshgogi/Property-Manager/internal/api"
	"github.com/shanteshgogi/Property-Manager/internal/auth"
	"github.com/shanteshgogi/Property-Manager/internal/config"
	"github.com/shanteshgogi/Property-Manager/internal/dashboard"
	"github.com/shanteshgogi/Property-Manager/internal/logging"
	"github.com/shanteshgogi/Property-Manager/internal/reminder"
	"github.com/shanteshgogi/Property-Manager/internal/seed"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/document"
	"github.com/shanteshgogi/Property-Manager/internal/upload"
	"github.com/shanteshgogi/Property-Manager/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	log := logging.New(config.AppName, cfg.LogLevel)

	// Health check mode for Docker HEALTHCHECK
	if cfg.HealthCheck {
		if err := runHealthCheck(cfg.Addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server exited with error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	log.WithFields(logrus.Fields{
		"version": version,
		"env":     cfg.Env,
		"store":   cfg.StoreDriver,
	}).Info("Starting Property Manager")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Closing store")
		}
	}()

	if cfg.Seed {
		if err := seed.Seed(ctx, store, cfg.Location, log); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	hub := websocket.NewHub(log)
	go hub.Run(ctx)
	events := websocket.NewEventBroadcaster(hub)

	audit := activity.NewLogger(store.ActivityLogs(), events, log)
	engine := dashboard.NewEngine(store, cfg.Location)

	job := reminder.NewJob(store, events, cfg.ReminderWindowDays, cfg.Location, log)
	scheduler, err := reminder.NewScheduler(job, cfg.ReminderSchedule, cfg.Location, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	uploads, err := upload.NewService(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(ctx, auth.Config{
		ProjectID:         cfg.FirebaseProjectID,
		CredentialsJSON:   cfg.FirebaseCredentialsJSON,
		CredentialsBase64: cfg.FirebaseCredentialsBase64,
		Production:        cfg.IsProduction(),
	}, log)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Services{
		Store:          store,
		Hub:            hub,
		Events:         events,
		Activity:       audit,
		Dashboard:      engine,
		Reminders:      scheduler,
		Uploads:        uploads,
		Verifier:       verifier,
		Location:       cfg.Location,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            log,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// openStore opens the configured backend. The SQLite store is migrated first.
func openStore(cfg *config.Config, log logrus.FieldLogger) (storage.Store, error) {
	path := cfg.DatabasePath()
	log = log.WithField("path", path)

	if cfg.StoreDriver == config.DriverBolt {
		s, err := document.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening document store: %w", err)
		}
		log.Info("Document store opened")
		return s, nil
	}

	db, err := storage.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := storage.RunMigrations(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("Database migrations complete")
	return storage.NewSQLStore(db), nil
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + host + api.HealthPath)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
