package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltTokenStore struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
	key    []byte
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
// The file is readable by its owner only since it holds a bearer token.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(config.BoltDB.FilePath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create the database folder, %v", err)
	}
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltTokenStore provides an instance of bolt-based token storage.
func NewBoltTokenStore(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB, key string) TokenStore {
	return &boltTokenStore{
		logger: logger,
		client: client,
		config: boltConfig,
		key:    []byte(key),
	}
}

// Close shuts down the bolt-based token storage.
func (bs *boltTokenStore) Close() error {
	return bs.client.Close()
}

// Load retrieves the stored token.
func (bs *boltTokenStore) Load(_ context.Context) (string, error) {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get(bs.key)
	if len(result) == 0 {
		return "", ErrTokenNotFound
	}
	// the slice is only valid during the transaction.
	return string(result), nil
}

// Save replaces the stored token.
func (bs *boltTokenStore) Save(_ context.Context, token string) error {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put(bs.key, []byte(token))
	})
	if err == nil {
		bs.logger.Debug("session token stored", zap.String("store.path", bs.config.FilePath))
	}
	return err
}

// Delete erases the stored token. Deleting a missing key is not an error.
func (bs *boltTokenStore) Delete(_ context.Context) error {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Delete(bs.key)
	})
	if err == nil {
		bs.logger.Debug("session token erased", zap.String("store.path", bs.config.FilePath))
	}
	return err
}
