package memory

import (
	"context"
	"sync"

	"overland/internal/app/ports"
)

// Store keeps worlds in process memory. Everything handed in or out is a
// copy, so callers never share slices with the store.
type Store struct {
	mu     sync.RWMutex
	worlds map[string]ports.WorldRecord
}

func NewStore() *Store {
	return &Store{
		worlds: make(map[string]ports.WorldRecord),
	}
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

// read runs fn under the read lock unless the caller already holds the
// store through TxManager.
func (s *Store) read(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
