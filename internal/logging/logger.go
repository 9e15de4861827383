package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(stdout()))
}

// WithDatabase keeps stdout logging and also persists ERROR+ records to db.
// Callers must Stop the returned handler on shutdown to flush the last batch.
func WithDatabase(db *gorm.DB) *DBHandler {
	h := NewDBHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdout(), h)))
	return h
}

func stdout() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
