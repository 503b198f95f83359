package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/layer-3/xosclaim/ports"
)

// FileStore appends credential records to a flat text log
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) ports.CredentialStore {
	return &FileStore{path: path}
}

// Append writes a record at the end of the log
func (s *FileStore) Append(ctx context.Context, address, privateKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open account log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatRecord(address, privateKey)); err != nil {
		return fmt.Errorf("failed to write account record: %w", err)
	}

	return nil
}

// LoadAllKeys reads every private key from the log
func (s *FileStore) LoadAllKeys(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return []string{}
	}
	defer f.Close()

	return parseKeys(f)
}
