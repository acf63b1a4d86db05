package source

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const downloadBucket = "downloads"

// Cache is a BoltDB-backed store of downloaded bodies keyed by URL.
type Cache struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

type cacheEntry struct {
	FetchedAt time.Time `json:"fetched_at"`
	Body      []byte    `json:"body"`
}

// OpenCache opens or creates a download cache at path. Entries older than
// ttl are treated as missing; ttl <= 0 keeps entries forever.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(downloadBucket)); err != nil {
			return fmt.Errorf("create downloads bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns a fresh cached body for key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var entry cacheEntry
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(downloadBucket)).Get([]byte(key))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &entry); err != nil {
			return fmt.Errorf("unmarshal cache entry: %w", err)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false, err
	}

	if c.ttl > 0 && c.now().Sub(entry.FetchedAt) > c.ttl {
		return nil, false, nil
	}
	return entry.Body, true, nil
}

// Put stores body under key with the current time.
func (c *Cache) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(cacheEntry{FetchedAt: c.now().UTC(), Body: body})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(downloadBucket)).Put([]byte(key), payload)
	})
}
