// Package boltstore provides a bbolt-backed content provider: the narrow
// read/write store that backs resources served from a mount path. A bloom
// filter seeded from the existing keys fronts the database so lookups for
// absent paths usually skip the read transaction entirely.
package boltstore

import (
	"fmt"
	"sync"
	"time"

	bloom "github.com/bits-and-blooms/bloom/v3"
	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/resolvd/internal/resolve/domain"
	"github.com/haukened/resolvd/internal/resolve/services/resolver"
)

var (
	bucketContent = []byte("content")
	bucketTypes   = []byte("types")
)

const (
	// minFilterCapacity keeps the filter useful for small or empty stores.
	minFilterCapacity = 1024
	filterFPRate      = 0.001
)

// Store serves resources from a bbolt database keyed by internal path.
type Store struct {
	db *bbolt.DB

	mu     sync.RWMutex // guards filter
	filter *bloom.BloomFilter
}

// Open opens (or creates) the database at path, ensures the buckets exist,
// and seeds the negative-lookup filter from the stored keys.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	var keyCount int
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketContent, bucketTypes} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		keyCount = tx.Bucket(bucketContent).Stats().KeyN
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	capacity := uint(keyCount)
	if capacity < minFilterCapacity {
		capacity = minFilterCapacity
	}
	s := &Store{
		db:     db,
		filter: bloom.NewWithEstimates(capacity, filterFPRate),
	}

	if err := db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketContent).ForEach(func(k, _ []byte) error {
			s.filter.Add(k)
			return nil
		})
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores content (and an optional resource type) at path.
func (s *Store) Put(path, resourceType string, data []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketContent).Put([]byte(path), data); err != nil {
			return err
		}
		if resourceType != "" {
			return tx.Bucket(bucketTypes).Put([]byte(path), []byte(resourceType))
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.filter.Add([]byte(path))
	s.mu.Unlock()
	return nil
}

// GetResource implements resolver.Provider. The session handle is opaque to
// the core and unused by this provider. Absent paths fail fast through the
// filter; a filter hit is confirmed against the database since bloom
// membership can be a false positive.
func (s *Store) GetResource(_ resolver.StoreSession, path string) (*domain.Resource, error) {
	key := []byte(path)

	s.mu.RLock()
	maybe := s.filter.Test(key)
	s.mu.RUnlock()
	if !maybe {
		return nil, fmt.Errorf("%q: %w", path, domain.ErrNotFound)
	}

	var res *domain.Resource
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketContent).Get(key)
		if data == nil {
			return fmt.Errorf("%q: %w", path, domain.ErrNotFound)
		}
		out := make([]byte, len(data))
		copy(out, data)
		res = &domain.Resource{
			Path: path,
			Type: string(tx.Bucket(bucketTypes).Get(key)),
			Data: out,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Len returns the number of stored resources.
func (s *Store) Len() int {
	var n int
	_ = s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketContent).Stats().KeyN
		return nil
	})
	return n
}

var _ resolver.Provider = (*Store)(nil)
