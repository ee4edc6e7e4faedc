package storage

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

type Object struct {
	ContentType string
	Body        []byte
}

// MemoryStore keeps uploads in process. Used when no bucket is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

func NewMemoryStore(baseURL string) *MemoryStore {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "memory://images"
	}
	return &MemoryStore{baseURL: baseURL, objects: make(map[string]Object)}
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || body == nil {
		return "", errors.Wrap(ErrInvalidObject, "key and body are required")
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrap(err, "read object body")
	}

	s.mu.Lock()
	s.objects[key] = Object{ContentType: contentType, Body: payload}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
