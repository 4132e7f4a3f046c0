// Package storage provides the key-value persistence collaborator backing
// the store and session. Values are opaque byte blobs; each collection is
// serialized under a fixed key.
package storage

import (
	"context"
	"errors"
	"fmt"

	"social-service/internal/config"
)

const (
	KeyUsers         = "users"
	KeyPosts         = "posts"
	KeyComments      = "comments"
	KeyNotifications = "notifications"
	KeyCurrentUser   = "currentUser"
)

// ErrNotFound is returned by Get for a key that was never written.
var ErrNotFound = errors.New("storage: key not found")

type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Open builds the backend selected by cfg.StorageDriver.
func Open(cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageDriver {
	case "file":
		return NewFileStore(cfg.DataDir)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "postgres":
		return OpenPostgres(cfg.PostgresDSN)
	case "redis":
		return OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
