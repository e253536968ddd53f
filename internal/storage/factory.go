package storage

import (
	"fmt"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/database"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/logging"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/storage/gormstore"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration.
// The database manager is only consulted for database-backed types.
func NewBackend(cfg config.StorageConfig, dbManager *database.Manager, logManager *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite", "postgres":
		if dbManager == nil || !dbManager.IsValid {
			return nil, fmt.Errorf("storage type %q requires a valid database connection", cfg.Type)
		}
		return gormstore.New(gormstore.Dependencies{
			DB:         dbManager.DB,
			LogManager: logManager,
			FlushSize:  cfg.FlushSize,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
