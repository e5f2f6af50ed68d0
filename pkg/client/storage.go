// Package client is the storefront's session half: an HTTP/JSON API
// client plus a state store that mirrors the current user, product page
// and cart, holds the anonymous cart while logged out, and merges it into
// the server cart at login.
package client

import (
	"encoding/json"
	"os"
	"sync"
)

// Fixed storage keys; the values are opaque JSON blobs.
const (
	TokenKey = "shopfront_token"
	CartKey  = "shopfront_cart"
)

// Storage is the persistence boundary for session state, the same role
// browser local storage plays.
type Storage interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

type MemoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string][]byte{}}
}

func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileStorage persists the key/value map as one JSON file.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) load() map[string][]byte {
	values := map[string][]byte{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	_ = json.Unmarshal(data, &values)
	return values
}

func (s *FileStorage) save(values map[string][]byte) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[key]
	return v, ok
}

func (s *FileStorage) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[key] = value
	return s.save(values)
}

func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	delete(values, key)
	return s.save(values)
}
