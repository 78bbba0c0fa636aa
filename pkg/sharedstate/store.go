// Package sharedstate publishes per-tunnel values (traffic counters, the
// last error, the server configuration) to a key-value store that another
// process can read.
package sharedstate

import (
	"errors"
	"os"
	"sync"

	"github.com/timshannon/badgerhold"
)

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is unset.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

type item struct {
	Key   string `badgerhold:"key"`
	Value []byte
}

// BadgerStore persists values in a badger database through badgerhold.
type BadgerStore struct {
	bh *badgerhold.Store
}

// OpenBadgerStore opens or creates the database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir

	bh, err := badgerhold.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{bh: bh}, nil
}

func (s *BadgerStore) Get(key string) ([]byte, bool, error) {
	var it item
	if err := s.bh.Get(key, &it); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return it.Value, true, nil
}

func (s *BadgerStore) Set(key string, value []byte) error {
	return s.bh.Upsert(key, item{Key: key, Value: value})
}

func (s *BadgerStore) Delete(key string) error {
	err := s.bh.Delete(key, item{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}
	return err
}

func (s *BadgerStore) Close() error {
	return s.bh.Close()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BadgerStore)(nil)
)
