// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sveniik/battletrack/internal/config"
	"github.com/sveniik/battletrack/internal/database"
	gormstorage "github.com/sveniik/battletrack/internal/storage/gorm"
	"github.com/sveniik/battletrack/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration.
// The "database" type connects via the database manager (Postgres with SQLite
// fallback); "none" disables history recording entirely.
func NewBackend(cfg config.StorageConfig, logger zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "database":
		mgr := database.NewManager(logger)
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("connecting history database: %w", err)
		}
		return gormstorage.New(mgr.DB, logger), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
