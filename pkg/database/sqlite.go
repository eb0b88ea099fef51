package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteConfig holds the embedded store settings.
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// NewSQLite opens the database file, creating its directory if needed.
// The pool is capped at one connection so writers are serialized by the engine.
func NewSQLite(ctx context.Context, logger *zap.Logger, cfg SQLiteConfig) (*sql.DB, func(), error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d", cfg.Path, busy.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Debug("sqlite_database_opened", zap.String("path", cfg.Path))

	closer := func() {
		if err := db.Close(); err != nil {
			logger.Error("sqlite_close_failed", zap.Error(err))
			return
		}
		logger.Info("sqlite_database_closed")
	}
	return db, closer, nil
}
