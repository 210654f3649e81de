package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// schemaVersion is bumped whenever the entry format changes; a database
// written with another version is cleared on open.
const schemaVersion uint16 = 1

var (
	bucketClean = []byte("clean")
	bucketMeta  = []byte("meta")
	keySchema   = []byte("schema_version")
)

// entry records one file that linted clean.
type entry struct {
	Schema      uint16
	Fingerprint string
	CheckedAt   int64
}

// LintCache persists clean lint results in a bbolt database.
type LintCache struct {
	db *bbolt.DB
}

// OpenLintCache opens or creates the cache database at path.
func OpenLintCache(path string) (*LintCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketMeta, err)
		}
		var stored uint16
		if data := meta.Get(keySchema); data != nil {
			if err := msgpack.Unmarshal(data, &stored); err != nil {
				stored = 0
			}
		}
		if stored != schemaVersion {
			if tx.Bucket(bucketClean) != nil {
				if err := tx.DeleteBucket(bucketClean); err != nil {
					return fmt.Errorf("failed to reset bucket %s: %w", bucketClean, err)
				}
			}
			data, err := msgpack.Marshal(schemaVersion)
			if err != nil {
				return err
			}
			if err := meta.Put(keySchema, data); err != nil {
				return err
			}
		}
		if _, err := tx.CreateBucketIfNotExists(bucketClean); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketClean, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LintCache{db: db}, nil
}

// IsClean reports whether path was last recorded clean with fingerprint.
// Lookup failures count as a miss.
func (c *LintCache) IsClean(path, fingerprint string) bool {
	clean := false
	_ = c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketClean).Get([]byte(path))
		if data == nil {
			return nil
		}
		var e entry
		if err := msgpack.Unmarshal(data, &e); err != nil {
			return nil
		}
		clean = e.Schema == schemaVersion && e.Fingerprint == fingerprint
		return nil
	})
	return clean
}

func (c *LintCache) MarkClean(path, fingerprint string) error {
	data, err := msgpack.Marshal(entry{
		Schema:      schemaVersion,
		Fingerprint: fingerprint,
		CheckedAt:   time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClean).Put([]byte(path), data)
	})
}

func (c *LintCache) Forget(path string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClean).Delete([]byte(path))
	})
}

// Len returns the number of clean entries.
func (c *LintCache) Len() int {
	n := 0
	_ = c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketClean).Stats().KeyN
		return nil
	})
	return n
}

// Clear drops every entry.
func (c *LintCache) Clear() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketClean); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketClean)
		return err
	})
}

func (c *LintCache) Close() error {
	return c.db.Close()
}
