package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/logger"
	"github.com/guttosm/storefront-cart/internal/repository"
)

// AuditService records the audit trail of cart mutations.
type AuditService interface {
	// Record enqueues an entry for storage. It never blocks; it returns
	// false when the entry was dropped.
	Record(entry *model.AuditEntry) bool
	// Query returns stored entries matching opts, newest first.
	Query(ctx context.Context, opts model.AuditQueryOptions) ([]*model.AuditEntry, error)
	// Count returns the number of stored entries matching opts.
	Count(ctx context.Context, opts model.AuditQueryOptions) (int64, error)
	// Close flushes pending entries and stops the workers.
	Close()
}

// AuditConfig holds configuration for the audit service.
type AuditConfig struct {
	// BufferSize is the size of the pending entry buffer.
	BufferSize int
	// NumWorkers is the number of goroutines writing entries.
	NumWorkers int
	// BatchSize caps the number of entries written in one call.
	BatchSize int
	// WriteTimeout bounds a single write to the repository.
	WriteTimeout time.Duration
}

// DefaultAuditConfig returns sensible defaults for the audit service.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		BufferSize:   1000,
		NumWorkers:   2,
		BatchSize:    50,
		WriteTimeout: 5 * time.Second,
	}
}

// AuditStats holds audit service counters.
type AuditStats struct {
	Enqueued int64 `json:"enqueued"`
	Dropped  int64 `json:"dropped"`
	Written  int64 `json:"written"`
	Errors   int64 `json:"errors"`
}

// AuditServiceImpl writes audit entries through a bounded worker pool so a
// slow database never slows down cart requests.
type AuditServiceImpl struct {
	repo         repository.AuditRepositoryInterface
	entryCh      chan *model.AuditEntry
	wg           sync.WaitGroup
	mu           sync.RWMutex
	closed       bool
	batchSize    int
	writeTimeout time.Duration

	enqueued int64
	dropped  int64
	written  int64
	errors   int64
}

// NewAuditService creates an audit service and starts its workers.
func NewAuditService(repo repository.AuditRepositoryInterface, cfg AuditConfig) *AuditServiceImpl {
	defaults := DefaultAuditConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = defaults.NumWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}

	s := &AuditServiceImpl{
		repo:         repo,
		entryCh:      make(chan *model.AuditEntry, cfg.BufferSize),
		batchSize:    cfg.BatchSize,
		writeTimeout: cfg.WriteTimeout,
	}

	for i := 0; i < cfg.NumWorkers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

// worker writes entries until the channel is closed, batching whatever is
// already queued.
func (s *AuditServiceImpl) worker() {
	defer s.wg.Done()

	batch := make([]*model.AuditEntry, 0, s.batchSize)
	for entry := range s.entryCh {
		batch = append(batch, entry)
	fill:
		for len(batch) < s.batchSize {
			select {
			case next, ok := <-s.entryCh:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		s.write(batch)
		batch = batch[:0]
	}
}

func (s *AuditServiceImpl) write(batch []*model.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	var err error
	if len(batch) == 1 {
		err = s.repo.Create(ctx, batch[0])
	} else {
		err = s.repo.CreateMany(ctx, batch)
	}

	if err != nil {
		atomic.AddInt64(&s.errors, int64(len(batch)))
		log := logger.Logger()
		log.Warn().Err(err).Int("entries", len(batch)).Msg("Failed to write audit entries")
		return
	}
	atomic.AddInt64(&s.written, int64(len(batch)))
}

// Record enqueues entry. Entries are dropped when the buffer is full or the
// service is closed.
func (s *AuditServiceImpl) Record(entry *model.AuditEntry) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		atomic.AddInt64(&s.dropped, 1)
		return false
	}

	select {
	case s.entryCh <- entry:
		atomic.AddInt64(&s.enqueued, 1)
		return true
	default:
		atomic.AddInt64(&s.dropped, 1)
		return false
	}
}

// Query returns stored entries matching opts.
func (s *AuditServiceImpl) Query(ctx context.Context, opts model.AuditQueryOptions) ([]*model.AuditEntry, error) {
	return s.repo.Query(ctx, opts)
}

// Count returns the number of stored entries matching opts.
func (s *AuditServiceImpl) Count(ctx context.Context, opts model.AuditQueryOptions) (int64, error) {
	return s.repo.Count(ctx, opts)
}

// Close stops accepting entries and waits until the queued ones are written.
// It is safe to call more than once.
func (s *AuditServiceImpl) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.entryCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// Stats returns current counters.
func (s *AuditServiceImpl) Stats() AuditStats {
	return AuditStats{
		Enqueued: atomic.LoadInt64(&s.enqueued),
		Dropped:  atomic.LoadInt64(&s.dropped),
		Written:  atomic.LoadInt64(&s.written),
		Errors:   atomic.LoadInt64(&s.errors),
	}
}
