package perft

import (
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Cache stores subtree node counts keyed by position hash and depth.
// It lives entirely in memory and is safe for concurrent use.
type Cache struct {
	db *badger.DB
}

// OpenCache creates an empty in-memory cache.
func OpenCache() (*Cache, error) {
	opts := badger.DefaultOptions("")
	opts.InMemory = true
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the cache.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func cacheKey(hash uint64, depth int) []byte {
	var key [9]byte
	binary.BigEndian.PutUint64(key[:8], hash)
	key[8] = byte(depth)
	return key[:]
}

// Get returns the stored count for (hash, depth).
func (c *Cache) Get(hash uint64, depth int) (uint64, bool, error) {
	var (
		nodes uint64
		found bool
	)
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(hash, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return errors.New("perft: corrupt cache entry")
			}
			nodes = binary.BigEndian.Uint64(val)
			found = true
			return nil
		})
	})
	return nodes, found, err
}

// Put records the count for (hash, depth).
func (c *Cache) Put(hash uint64, depth int, nodes uint64) error {
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], nodes)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(hash, depth), val[:])
	})
}
