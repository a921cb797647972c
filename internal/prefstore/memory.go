package prefstore

import (
	"context"
	"sync"
)

type Memory struct {
	l sync.RWMutex
	m map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (s *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.l.RLock()
	defer s.l.RUnlock()

	d, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), d...), true, nil
}

func (s *Memory) Put(ctx context.Context, key string, value []byte) error {
	s.l.Lock()
	defer s.l.Unlock()

	s.m[key] = append([]byte(nil), value...)

	return nil
}
