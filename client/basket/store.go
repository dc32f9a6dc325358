package basket

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// IDKey is the key the basket id is persisted under.
const IDKey = "basket_id"

// IDStore persists the id of the shopper's current basket between sessions.
// Load returns "" when no id has been saved.
type IDStore interface {
	Load() (string, error)
	Save(id string) error
	Clear() error
}

// MemoryIDStore keeps the id for the lifetime of the process.
type MemoryIDStore struct {
	mu sync.Mutex
	id string
}

func NewMemoryIDStore() *MemoryIDStore {
	return &MemoryIDStore{}
}

func (s *MemoryIDStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *MemoryIDStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}

func (s *MemoryIDStore) Clear() error {
	return s.Save("")
}

// FileIDStore keeps the id in a small JSON document, {"basket_id": "..."}.
// Other keys already in the file are preserved.
type FileIDStore struct {
	mu   sync.Mutex
	path string
}

func NewFileIDStore(path string) *FileIDStore {
	return &FileIDStore{path: path}
}

func (s *FileIDStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	id, _ := doc[IDKey].(string)
	return id, nil
}

func (s *FileIDStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[IDKey] = id
	return s.write(doc)
}

func (s *FileIDStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc[IDKey]; !ok {
		return nil
	}
	delete(doc, IDKey)
	return s.write(doc)
}

func (s *FileIDStore) read() (map[string]any, error) {
	doc := map[string]any{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read basket id file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse basket id file %s: %w", s.path, err)
	}
	return doc, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileIDStore) write(doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode basket id file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create basket id dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".basket-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write basket id file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close basket id file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace basket id file: %w", err)
	}
	return nil
}
