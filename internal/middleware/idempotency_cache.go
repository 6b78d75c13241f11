package middleware

import (
	"sync"
	"time"
)

// reservation is the outcome of IdempotencyStore.Reserve.
type reservation int

const (
	// reserved means the caller owns the key and must Complete or Release it.
	reserved reservation = iota
	// replay means a finished response for the same request is stored.
	replay
	// inProgress means another request holding the key has not finished.
	inProgress
	// mismatch means the key was used for a different request.
	mismatch
)

// storedResponse is a finished response kept for replay.
type storedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type idempotencyEntry struct {
	fingerprint string
	response    *storedResponse
	storedAt    time.Time
}

// IdempotencyStore remembers the responses of cart writes by idempotency key.
// Entries expire after the TTL; the oldest entries are dropped once
// maxEntries is reached.
type IdempotencyStore struct {
	mu         sync.Mutex
	entries    map[string]*idempotencyEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewIdempotencyStore creates a store and starts its cleanup loop.
func NewIdempotencyStore(ttl time.Duration, maxEntries int) *IdempotencyStore {
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultIdempotencyEntries
	}
	s := &IdempotencyStore{
		entries:    make(map[string]*idempotencyEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Reserve claims key for a request with the given fingerprint.
func (s *IdempotencyStore) Reserve(key, fingerprint string) (reservation, *storedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Sub(entry.storedAt) <= s.ttl {
		switch {
		case entry.fingerprint != fingerprint:
			return mismatch, nil
		case entry.response == nil:
			return inProgress, nil
		default:
			return replay, entry.response
		}
	}

	if len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[key] = &idempotencyEntry{fingerprint: fingerprint, storedAt: now}
	return reserved, nil
}

// Complete stores the response of a reserved key.
func (s *IdempotencyStore) Complete(key string, resp *storedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		entry.response = resp
		entry.storedAt = s.now()
	}
}

// Release frees a reserved key so the request can be retried.
func (s *IdempotencyStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && entry.response == nil {
		delete(s.entries, key)
	}
}

// Len returns the number of stored keys.
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *IdempotencyStore) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range s.entries {
		if oldestKey == "" || entry.storedAt.Before(oldest) {
			oldestKey, oldest = key, entry.storedAt
		}
	}
	delete(s.entries, oldestKey)
}

func (s *IdempotencyStore) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup removes expired entries.
func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.storedAt) > s.ttl {
			delete(s.entries, key)
		}
	}
}
