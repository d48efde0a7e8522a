// Package chunkcache caches decoded prototypes keyed by the SHA-256 of the
// binary chunk they came from, so repeated loads of the same chunk skip
// Undump.
package chunkcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/chazu/luavm/binchunk"
)

var log = commonlog.GetLogger("luavm.chunkcache")

// Hash identifies a chunk by content.
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Key returns the cache key of a raw chunk.
func Key(chunk []byte) Hash {
	return sha256.Sum256(chunk)
}

// Cache decodes chunks through a Store. Store failures degrade to a plain
// Undump; they are logged and never returned.
type Cache struct {
	store  Store
	hits   atomic.Int64
	misses atomic.Int64
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// Load returns the prototype tree of chunk, decoding and storing it on a
// miss. Malformed chunks are not stored.
func (c *Cache) Load(ctx context.Context, chunk []byte) (*binchunk.Prototype, error) {
	key := Key(chunk)

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Warning("cache read failed", "hash", key.String(), "error", err.Error())
	}
	if ok {
		p, err := Unmarshal(data)
		if err == nil {
			c.hits.Add(1)
			log.Debug("cache hit", "hash", key.String())
			return p, nil
		}
		log.Warning("discarding bad cache entry", "hash", key.String(), "error", err.Error())
	}

	c.misses.Add(1)
	p, err := binchunk.Undump(chunk)
	if err != nil {
		return nil, err
	}
	log.Debug("cache miss", "hash", key.String(), "instructions", len(p.Code))

	if data, err = Marshal(p); err != nil {
		log.Warning("cannot encode prototype", "hash", key.String(), "error", err.Error())
		return p, nil
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		log.Warning("cache write failed", "hash", key.String(), "error", err.Error())
	}
	return p, nil
}

// Loader adapts Load to the loader signature taken by state.WithProtoLoader.
func (c *Cache) Loader(ctx context.Context) func(chunk []byte) (*binchunk.Prototype, error) {
	return func(chunk []byte) (*binchunk.Prototype, error) {
		return c.Load(ctx, chunk)
	}
}

// Stats returns the number of hits and misses so far.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
