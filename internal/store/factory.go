package store

import (
	"context"
	"fmt"

	"github.com/Jaichauhan01/expense-tracker/internal/config"
	applog "github.com/Jaichauhan01/expense-tracker/internal/log"
	"github.com/Jaichauhan01/expense-tracker/internal/store/jsonfile"
	"github.com/Jaichauhan01/expense-tracker/internal/store/memory"
	"github.com/Jaichauhan01/expense-tracker/internal/store/sqlite"
)

// BackendType represents the type of persistence backend
type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc represents a cleanup function for backend resources
type CleanupFunc func() error

// Result contains the ledger instance and optional cleanup function
type Result struct {
	Ledger  Ledger
	Cleanup CleanupFunc
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// JSON file backend
	JSONStorePath string

	// SQLite backend
	SQLiteDBPath string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:          backendType,
		JSONStorePath: appConfig.JSONStorePath,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case JSONBackend:
		if c.JSONStorePath == "" {
			return fmt.Errorf("JSON store path is required for json backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// Memory backend doesn't require additional configuration
	}

	return nil
}

// Open creates a ledger backend based on the provided config.
func Open(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := applog.Default(applog.ComponentStore)

	switch cfg.Type {
	case JSONBackend:
		log.InfoContext(ctx, "Initialized JSON file backend",
			applog.FieldBackend, cfg.Type.String(), "path", cfg.JSONStorePath)
		return &Result{Ledger: jsonfile.New(cfg.JSONStorePath)}, nil

	case SQLiteBackend:
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		log.InfoContext(ctx, "Initialized SQLite backend",
			applog.FieldBackend, cfg.Type.String(), "db_path", cfg.SQLiteDBPath)
		return &Result{Ledger: s, Cleanup: s.Close}, nil

	case MemoryBackend:
		log.InfoContext(ctx, "Initialized memory backend",
			applog.FieldBackend, cfg.Type.String())
		return &Result{Ledger: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
