package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Ristretto is a Store backed by a ristretto cache.
type Ristretto struct {
	c *ristretto.Cache[string, []byte]
}

// NewRistretto creates a cache bounded to maxBytes of stored values.
func NewRistretto(maxBytes int64) (*Ristretto, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	return &Ristretto{c: c}, nil
}

func (r *Ristretto) Get(key string) ([]byte, bool) {
	return r.c.Get(key)
}

// Set is asynchronous: the value becomes visible once ristretto has applied the write.
func (r *Ristretto) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	r.c.SetWithTTL(key, value, int64(len(value)), ttl)
}

// Wait blocks until buffered writes are applied.
func (r *Ristretto) Wait() {
	r.c.Wait()
}

func (r *Ristretto) Delete(key string) {
	r.c.Del(key)
}

func (r *Ristretto) Clear() {
	r.c.Clear()
}

// Close stops ristretto's background goroutines.
func (r *Ristretto) Close() {
	r.c.Close()
}
