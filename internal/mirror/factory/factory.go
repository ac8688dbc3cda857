// Package factory builds the configured mirror backend.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"asdgest/internal/mirror"
	"asdgest/internal/mirror/dir"
	"asdgest/internal/mirror/drive"
	"asdgest/internal/mirror/memory"
	"asdgest/internal/mirror/sqlite"
)

// Backend identifies a mirror implementation.
type Backend string

const (
	MemoryBackend Backend = "memory"
	DirBackend    Backend = "dir"
	DriveBackend  Backend = "drive"
	SQLiteBackend Backend = "sqlite"
)

// IsValid reports whether the backend name is known.
func (b Backend) IsValid() bool {
	switch b {
	case MemoryBackend, DirBackend, DriveBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config selects and parameterizes the backend. Drive credentials come from
// the environment, not from here.
type Config struct {
	Type         Backend
	Dir          string
	SQLiteDBPath string
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// New builds the configured mirror. The cleanup function may be nil.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (mirror.Mirror, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Type {
	case MemoryBackend:
		logger.Info("mirror inizializzato", "backend", "memory")
		return memory.New(), nil, nil
	case DirBackend:
		s, err := dir.New(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("dir mirror: %w", err)
		}
		logger.Info("mirror inizializzato", "backend", "dir", "dir", cfg.Dir)
		return s, nil, nil
	case DriveBackend:
		c, err := drive.NewFromEnv(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("drive mirror: %w", err)
		}
		logger.Info("mirror inizializzato", "backend", "drive")
		return c, nil, nil
	case SQLiteBackend:
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite mirror: %w", err)
		}
		logger.Info("mirror inizializzato", "backend", "sqlite", "db_path", cfg.SQLiteDBPath)
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("backend mirror sconosciuto: %q", cfg.Type)
	}
}
