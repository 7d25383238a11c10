// Package bolt implements the backing-store contract on an embedded bbolt
// file, for single-node deployments that do not run Postgres. Bolt executes
// one write transaction at a time, so AssignFocus's count-then-write is
// atomic without any extra locking.
package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bboltdb "go.etcd.io/bbolt"

	"github.com/focusloop/backend/repository"
)

var (
	bucketUsers    = []byte("users")
	bucketItems    = []byte("items")
	bucketReviews  = []byte("reviews")
	bucketSessions = []byte("sessions")
)

// Store wraps a bbolt database file holding one bucket per entity.
type Store struct {
	db *bboltdb.DB
}

// Open initializes the database file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bboltdb.Open(path, 0o600, &bboltdb.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bboltdb.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketItems, bucketReviews, bucketSessions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes bbolt statistics.
func (s *Store) Stats() bboltdb.Stats {
	if s == nil || s.db == nil {
		return bboltdb.Stats{}
	}
	return s.db.Stats()
}

// Users returns the store's UserRepository view.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Items returns the store's ItemRepository view.
func (s *Store) Items() repository.ItemRepository { return itemRepo{s} }

// Reviews returns the store's ReviewRepository view.
func (s *Store) Reviews() repository.ReviewRepository { return reviewRepo{s} }

// Sessions returns the store's SessionRepository view.
func (s *Store) Sessions() repository.SessionRepository { return sessionRepo{s} }

// Item and session keys are userID/entityID so per-user reads are prefix
// scans; review keys append the type and a zero-padded period end for
// ordered range scans and per-period uniqueness.

func itemKey(userID, itemID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", userID, itemID))
}

func reviewKey(userID, reviewType string, periodEnd time.Time) []byte {
	return []byte(fmt.Sprintf("%s/%s/%020d", userID, reviewType, periodEnd.UnixNano()))
}

func sessionKey(userID, sessionID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", userID, sessionID))
}

func userPrefix(userID string) []byte {
	return []byte(userID + "/")
}

func reviewPrefix(userID, reviewType string) []byte {
	return []byte(fmt.Sprintf("%s/%s/", userID, reviewType))
}

func put(b *bboltdb.Bucket, key []byte, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, payload)
}

func jsonUnmarshal(raw []byte, v interface{}) error {
	return json.Unmarshal(raw, v)
}

// forEachPrefix decodes every value under the prefix into a fresh T.
func forEachPrefix[T any](b *bboltdb.Bucket, prefix []byte, fn func(*T) error) error {
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var entity T
		if err := json.Unmarshal(v, &entity); err != nil {
			continue
		}
		if err := fn(&entity); err != nil {
			return err
		}
	}
	return nil
}
