package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// TokenStore durably keeps the single session token between runs.
// Load returns ErrTokenNotFound when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
	Close() error
}

// NewTokenStore builds the storage backend selected by the configuration,
// sealed when a passphrase is configured.
func NewTokenStore(logger *zap.Logger, config *Config) (TokenStore, error) {
	var store TokenStore
	switch config.Session.Storage {
	case StorageBolt:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb session store: %w", err)
		}
		store = NewBoltTokenStore(logger, &config.BoltDB, client, config.Session.Key)
	case StorageRedis:
		client, err := GetRedisClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %w", err)
		}
		store = NewRedisTokenStore(logger, client, config.Session.Key, config.Redis.TokenTTL)
	case StorageMemory:
		store = NewMemoryTokenStore()
	default:
		return nil, fmt.Errorf("unknown session storage %q", config.Session.Storage)
	}

	if config.Session.SealPassphrase != "" {
		store = NewSealedTokenStore(store, config.Session.SealPassphrase)
	}
	return store, nil
}

var _ TokenStore = (*memoryTokenStore)(nil)

type memoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore provides a process local store. Nothing survives a restart.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{}
}

func (ms *memoryTokenStore) Load(_ context.Context) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.token == "" {
		return "", ErrTokenNotFound
	}
	return ms.token, nil
}

func (ms *memoryTokenStore) Save(_ context.Context, token string) error {
	ms.mu.Lock()
	ms.token = token
	ms.mu.Unlock()
	return nil
}

func (ms *memoryTokenStore) Delete(_ context.Context) error {
	ms.mu.Lock()
	ms.token = ""
	ms.mu.Unlock()
	return nil
}

func (ms *memoryTokenStore) Close() error { return nil }
