//go:build !integration

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDefaultAuditConfig(t *testing.T) {
	cfg := DefaultAuditConfig()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 2, cfg.NumWorkers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestAuditService_RecordFlushesOnClose(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	var stored int64
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditEntry")).
		Run(func(mock.Arguments) { atomic.AddInt64(&stored, 1) }).
		Return(nil).Maybe()
	repo.On("CreateMany", mock.Anything, mock.AnythingOfType("[]*model.AuditEntry")).
		Run(func(args mock.Arguments) {
			entries, _ := args.Get(1).([]*model.AuditEntry)
			atomic.AddInt64(&stored, int64(len(entries)))
		}).
		Return(nil).Maybe()

	svc := NewAuditService(repo, AuditConfig{BufferSize: 100, NumWorkers: 2, BatchSize: 10})
	for i := 0; i < 25; i++ {
		require.True(t, svc.Record(&model.AuditEntry{UserID: "u1", Operation: model.OperationAddItem}))
	}
	svc.Close()

	assert.Equal(t, int64(25), atomic.LoadInt64(&stored))
	stats := svc.Stats()
	assert.Equal(t, int64(25), stats.Enqueued)
	assert.Equal(t, int64(25), stats.Written)
	assert.Zero(t, stats.Errors)
}

func TestAuditService_DropsWhenFull(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	block := make(chan struct{})
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-block }).
		Return(nil).Maybe()
	repo.On("CreateMany", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-block }).
		Return(nil).Maybe()

	svc := NewAuditService(repo, AuditConfig{BufferSize: 1, NumWorkers: 1, BatchSize: 1})

	// The worker takes the first entry and blocks; the second fills the buffer.
	accepted := 0
	for i := 0; i < 10; i++ {
		if svc.Record(&model.AuditEntry{}) {
			accepted++
		}
	}
	close(block)
	svc.Close()

	assert.LessOrEqual(t, accepted, 2)
	assert.Equal(t, int64(10-accepted), svc.Stats().Dropped)
}

func TestAuditService_CountsWriteErrors(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("write concern")).Maybe()
	repo.On("CreateMany", mock.Anything, mock.Anything).Return(errors.New("write concern")).Maybe()

	svc := NewAuditService(repo, AuditConfig{NumWorkers: 1})
	svc.Record(&model.AuditEntry{})
	svc.Close()

	stats := svc.Stats()
	assert.Equal(t, int64(1), stats.Errors)
	assert.Zero(t, stats.Written)
}

func TestAuditService_RecordAfterClose(t *testing.T) {
	svc := NewAuditService(new(mocks.MockAuditRepository), DefaultAuditConfig())
	svc.Close()
	svc.Close()

	assert.False(t, svc.Record(&model.AuditEntry{}))
	assert.Equal(t, int64(1), svc.Stats().Dropped)
}

func TestAuditService_QueryAndCount(t *testing.T) {
	repo := new(mocks.MockAuditRepository)
	opts := model.AuditQueryOptions{UserID: "u1", Limit: 20}
	entries := []*model.AuditEntry{{UserID: "u1", Operation: model.OperationClearCart}}
	repo.On("Query", mock.Anything, opts).Return(entries, nil)
	repo.On("Count", mock.Anything, opts).Return(int64(7), nil)

	svc := NewAuditService(repo, DefaultAuditConfig())
	defer svc.Close()

	got, err := svc.Query(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	count, err := svc.Count(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
