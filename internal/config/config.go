// Package config loads server configuration from .env, the environment and flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppName is used as the log prefix and the default database file name.
const AppName = "property-manager"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config holds all runtime settings for the server.
type Config struct {
	Addr        string
	DataDir     string
	StaticDir   string
	UploadDir   string
	StoreDriver string
	Env         string
	LogLevel    string

	ReminderSchedule   string
	ReminderWindowDays int
	Timezone           string
	Location           *time.Location

	CORSAllowedOrigins []string

	FirebaseProjectID         string
	FirebaseCredentialsJSON   string
	FirebaseCredentialsBase64 string

	MaxUploadBytes int64

	Seed        bool
	HealthCheck bool
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DatabasePath returns the store file for the configured driver.
func (c *Config) DatabasePath() string {
	if c.StoreDriver == DriverBolt {
		return filepath.Join(c.DataDir, AppName+".bolt")
	}
	return filepath.Join(c.DataDir, AppName+".db")
}

// Load reads configuration with precedence flags > environment > .env > defaults.
// A missing .env file is not an error.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                      getEnv("ADDR", ":"+getEnv("PORT", "8080")),
		DataDir:                   getEnv("DATA_DIR", "./data"),
		StaticDir:                 getEnv("STATIC_DIR", "./static"),
		UploadDir:                 os.Getenv("UPLOAD_DIR"),
		StoreDriver:               getEnv("STORE_DRIVER", DriverSQLite),
		Env:                       getEnv("APP_ENV", "development"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		ReminderSchedule:          getEnv("REMINDER_SCHEDULE", "0 9 * * *"),
		Timezone:                  getEnv("TZ_NAME", "UTC"),
		FirebaseProjectID:         os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsJSON:   os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"),
		FirebaseCredentialsBase64: os.Getenv("FIREBASE_SERVICE_ACCOUNT_BASE64"),
	}

	var err error
	if cfg.ReminderWindowDays, err = getEnvInt("REMINDER_WINDOW_DAYS", 30); err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", 5*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Data directory for the database and uploads")
	fs.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Directory for static frontend files")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Storage backend: sqlite or bolt")
	fs.BoolVar(&cfg.Seed, "seed", false, "Load demo data on startup")
	fs.BoolVar(&cfg.HealthCheck, "health-check", false, "Run health check and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(cfg.DataDir, "uploads")
	}
	if cfg.StoreDriver != DriverSQLite && cfg.StoreDriver != DriverBolt {
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if cfg.ReminderWindowDays <= 0 {
		return nil, fmt.Errorf("REMINDER_WINDOW_DAYS must be positive, got %d", cfg.ReminderWindowDays)
	}
	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, v)
	}
	return n, nil
}
