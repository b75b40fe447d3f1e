package onetime

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

type memoryRecord struct {
	code      string
	attempts  int
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node development.
// All transitions happen under one mutex, which gives the same
// exactly-one-success guarantee the Redis scripts provide.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
	opts    options

	now func() time.Time // test hook
}

// NewMemoryStore creates an in-memory one-time code store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]*memoryRecord),
		opts:    defaultOptions(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Generate creates a new pending code for the key, superseding any prior one.
func (s *MemoryStore) Generate(ctx context.Context, key string) (string, error) {
	code, err := generateCode(s.opts.codeLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = &memoryRecord{
		code:      code,
		expiresAt: s.now().Add(s.opts.ttl),
	}

	return code, nil
}

// Verify consumes the pending code for the key.
func (s *MemoryStore) Verify(ctx context.Context, key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || s.now().After(rec.expiresAt) {
		delete(s.records, key)
		return ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(rec.code), []byte(code)) != 1 {
		rec.attempts++
		if rec.attempts >= s.opts.maxAttempts {
			delete(s.records, key)
		}
		return ErrCodeMismatch
	}

	delete(s.records, key)
	return nil
}
