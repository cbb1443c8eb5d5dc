package kvstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Tiliavir/collection-log-advisor/internal/config"
)

// Open builds the store selected by cfg. The returned close function
// releases the backend and is always non-nil.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	var (
		store   Store
		closeFn = noop
	)
	switch cfg.Backend {
	case "", "file":
		path, err := storePath(cfg.Path, "store.json")
		if err != nil {
			return nil, noop, err
		}
		store = NewFileStore(path)
	case "sqlite":
		path, err := storePath(cfg.Path, "store.db")
		if err != nil {
			return nil, noop, err
		}
		db, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, noop, err
		}
		store, closeFn = db, db.Close
	case "memory":
		store = NewMemoryStore()
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if cfg.CacheSize > 0 {
		store = NewCached(store, cfg.CacheSize, cfg.TTL())
	}
	return store, closeFn, nil
}

func storePath(configured, name string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
