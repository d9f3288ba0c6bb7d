package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect loads .env and opens the database. The default is the embedded
// SQLite file (DB_PATH, "registros.db"); DB_DRIVER=postgres switches to the
// server database given by DB_DSN.
func Connect() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch os.Getenv("DB_DRIVER") {
	case "", "sqlite":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "registros.db"
		}
		db, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
		}
		return db, nil
	case "postgres":
		db, err := gorm.Open(postgres.Open(os.Getenv("DB_DSN")), cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", os.Getenv("DB_DRIVER"))
	}
}

// NewLogger builds the process logger: tinted console output, level from
// LOG_LEVEL (debug|info|warn|error, default info).
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}
