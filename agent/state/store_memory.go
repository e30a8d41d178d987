package state

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps sessions in-process, evicting the least recently used beyond size
// and anything idle for longer than the TTL.
type MemoryStore struct {
	cache *expirable.LRU[string, []byte]
}

func NewMemoryStore(size int, opts ...StoreOption) (*MemoryStore, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{cache: expirable.NewLRU[string, []byte](size, nil, o.ttl)}, nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*SelectionState, error) {
	key, err := sessionKey("", sessionID)
	if err != nil {
		return nil, err
	}
	payload, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrStateNotFound
	}
	return decodeState(payload)
}

func (s *MemoryStore) Save(_ context.Context, st *SelectionState) error {
	payload, err := encodeState(st)
	if err != nil {
		return err
	}
	s.cache.Add(st.SessionID, payload)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	key, err := sessionKey("", sessionID)
	if err != nil {
		return err
	}
	s.cache.Remove(key)
	return nil
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
