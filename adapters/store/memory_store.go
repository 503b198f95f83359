package store

import (
	"context"
	"strings"
	"sync"

	"github.com/layer-3/xosclaim/ports"
)

// MemoryStore is an in-memory implementation of the CredentialStore interface
type MemoryStore struct {
	log strings.Builder
	mu  sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ ports.CredentialStore = (*MemoryStore)(nil)

// Append adds a record
func (s *MemoryStore) Append(ctx context.Context, address, privateKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.WriteString(formatRecord(address, privateKey))
	return nil
}

// LoadAllKeys returns the stored keys
func (s *MemoryStore) LoadAllKeys(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return parseKeys(strings.NewReader(s.log.String()))
}

// Records returns the number of appended records
func (s *MemoryStore) Records() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return strings.Count(s.log.String(), privateKeyPrefix)
}
