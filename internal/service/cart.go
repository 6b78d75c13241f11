package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/i18n"
	"github.com/guttosm/storefront-cart/internal/logger"
	"github.com/guttosm/storefront-cart/internal/metrics"
	"github.com/guttosm/storefront-cart/internal/querycache"
)

// CartService exposes the cart of a user to the storefront.
//
// Reads go through the query cache. Writes are applied to the cache
// optimistically, forwarded to the cart backend and then reconciled:
// invalidated on success, restored on failure.
type CartService interface {
	// GetCart returns the cached cart when fresh, otherwise loads it.
	GetCart(ctx context.Context, userID string) (model.CartSnapshot, error)
	// AddItem adds an item. The item id is assigned by the backend, so there is no optimistic step.
	AddItem(ctx context.Context, userID string, input cartapi.AddItemInput) (MutationOutcome, error)
	// UpdateItemQuantity changes the quantity of an item.
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (MutationOutcome, error)
	// RemoveItem deletes an item, dropping its restaurant group when it was the last one.
	RemoveItem(ctx context.Context, userID, itemID string) (MutationOutcome, error)
	// ClearCart empties the cart.
	ClearCart(ctx context.Context, userID string) (MutationOutcome, error)
	// Discard drops the cached cart of a user, e.g. on logout.
	Discard(userID string)
	// Peek returns the cached cart without loading it.
	Peek(userID string) (model.CartSnapshot, bool)
}

// MutationOutcome is the result of a successful cart write.
type MutationOutcome struct {
	// Cart is the cart re-read after the write.
	Cart model.CartSnapshot
	// Settled is false when the re-read failed or was overtaken by another
	// write; Cart then holds the last cached value.
	Settled bool
	// Optimistic reports whether a projected value was shown before the backend answered.
	Optimistic bool
}

// mutation describes one cart write.
type mutation struct {
	op         string
	itemID     string
	messageKey string
	fields     map[string]interface{}
	// project computes the optimistic value. Nil means the write has no optimistic step.
	project querycache.MutateFunc[model.CartSnapshot]
	remote  func(ctx context.Context) error
}

// CartServiceImpl implements CartService.
type CartServiceImpl struct {
	api   cartapi.CartAPI
	cache *querycache.Cache[model.CartSnapshot]
	audit AuditService
	now   func() time.Time
}

// NewCartService creates a cart service. audit may be nil.
func NewCartService(api cartapi.CartAPI, cache *querycache.Cache[model.CartSnapshot], audit AuditService) *CartServiceImpl {
	return &CartServiceImpl{
		api:   api,
		cache: cache,
		audit: audit,
		now:   time.Now,
	}
}

// CartKey returns the cache key holding the cart of userID.
func CartKey(userID string) string {
	return "cart:" + userID
}

// GetCart returns the cart of userID.
// A failed load falls back to the cached value; without one it returns a *FetchError.
func (s *CartServiceImpl) GetCart(ctx context.Context, userID string) (model.CartSnapshot, error) {
	if userID == "" {
		return model.CartSnapshot{}, ErrUserRequired
	}

	snapshot, err := s.cache.Fetch(ctx, CartKey(userID), s.fetcher(userID))
	if err == nil {
		metrics.RecordCartFetch("ok")
		return snapshot, nil
	}

	var stale *querycache.StaleError
	if errors.As(err, &stale) {
		metrics.RecordCartFetch("stale")
		logger.FromContext(ctx).Warn().
			Err(stale.Err).
			Str("user_id", userID).
			Msg("Serving cached cart after failed fetch")
		return snapshot, nil
	}

	metrics.RecordCartFetch("error")
	return model.CartSnapshot{}, &FetchError{Cause: err}
}

// AddItem adds an item to the cart of userID.
func (s *CartServiceImpl) AddItem(ctx context.Context, userID string, input cartapi.AddItemInput) (MutationOutcome, error) {
	if userID == "" {
		return MutationOutcome{}, ErrUserRequired
	}
	if input.Quantity < 1 {
		return MutationOutcome{}, ErrInvalidQuantity
	}

	return s.runMutation(ctx, userID, mutation{
		op:         model.OperationAddItem,
		messageKey: i18n.ErrKeyCartAddFailed,
		fields: map[string]interface{}{
			"restaurant_id": input.RestaurantID,
			"menu_id":       input.MenuID,
			"quantity":      input.Quantity,
		},
		remote: func(ctx context.Context) error {
			return s.api.AddItem(ctx, userID, input)
		},
	})
}

// UpdateItemQuantity sets the quantity of itemID. Quantities below 1 are
// rejected here; use RemoveItem instead.
func (s *CartServiceImpl) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (MutationOutcome, error) {
	if userID == "" {
		return MutationOutcome{}, ErrUserRequired
	}
	if itemID == "" {
		return MutationOutcome{}, ErrItemIDRequired
	}
	if quantity < 1 {
		return MutationOutcome{}, ErrInvalidQuantity
	}

	return s.runMutation(ctx, userID, mutation{
		op:         model.OperationUpdateItemQuantity,
		itemID:     itemID,
		messageKey: i18n.ErrKeyCartUpdateFailed,
		fields:     map[string]interface{}{"quantity": quantity},
		project: func(current model.CartSnapshot, exists bool) (model.CartSnapshot, bool) {
			if !exists {
				return current, false
			}
			return current.UpdateItemQuantity(itemID, quantity), true
		},
		remote: func(ctx context.Context) error {
			return s.api.UpdateItemQuantity(ctx, userID, itemID, quantity)
		},
	})
}

// RemoveItem deletes itemID from the cart of userID.
func (s *CartServiceImpl) RemoveItem(ctx context.Context, userID, itemID string) (MutationOutcome, error) {
	if userID == "" {
		return MutationOutcome{}, ErrUserRequired
	}
	if itemID == "" {
		return MutationOutcome{}, ErrItemIDRequired
	}

	return s.runMutation(ctx, userID, mutation{
		op:         model.OperationRemoveItem,
		itemID:     itemID,
		messageKey: i18n.ErrKeyCartRemoveFailed,
		project: func(current model.CartSnapshot, exists bool) (model.CartSnapshot, bool) {
			if !exists {
				return current, false
			}
			return current.RemoveItem(itemID), true
		},
		remote: func(ctx context.Context) error {
			return s.api.RemoveItem(ctx, userID, itemID)
		},
	})
}

// ClearCart empties the cart of userID.
func (s *CartServiceImpl) ClearCart(ctx context.Context, userID string) (MutationOutcome, error) {
	if userID == "" {
		return MutationOutcome{}, ErrUserRequired
	}

	return s.runMutation(ctx, userID, mutation{
		op:         model.OperationClearCart,
		messageKey: i18n.ErrKeyCartClearFailed,
		project: func(model.CartSnapshot, bool) (model.CartSnapshot, bool) {
			return model.EmptySnapshot(), true
		},
		remote: func(ctx context.Context) error {
			return s.api.ClearCart(ctx, userID)
		},
	})
}

// Discard removes the cached cart of userID, cancelling any load in flight.
func (s *CartServiceImpl) Discard(userID string) {
	s.cache.Remove(CartKey(userID))
}

// Peek returns a copy of the cached cart of userID, fresh or stale.
func (s *CartServiceImpl) Peek(userID string) (model.CartSnapshot, bool) {
	snapshot, ok := s.cache.Peek(CartKey(userID))
	if !ok {
		return model.CartSnapshot{}, false
	}
	return snapshot.Clone(), true
}

func (s *CartServiceImpl) fetcher(userID string) querycache.Fetcher[model.CartSnapshot] {
	return func(ctx context.Context) (model.CartSnapshot, error) {
		return s.api.FetchCart(ctx, userID)
	}
}

// runMutation applies m to the cart of userID.
//
// The in-flight load is cancelled and the optimistic value written in one
// step, so no reader sees a partial update and no late load overwrites it.
// The rollback target is whatever the cache held at that moment, which may
// be the optimistic value of a mutation still in flight.
func (s *CartServiceImpl) runMutation(ctx context.Context, userID string, m mutation) (MutationOutcome, error) {
	key := CartKey(userID)
	start := s.now()
	log := logger.FromContext(ctx).With().
		Str("operation", m.op).
		Str("user_id", userID).
		Logger()

	optimistic := false
	previous, hadPrevious := s.cache.Mutate(key, func(current model.CartSnapshot, exists bool) (model.CartSnapshot, bool) {
		if m.project == nil {
			return current, false
		}
		next, write := m.project(current, exists)
		optimistic = write
		return next, write
	})

	if err := m.remote(ctx); err != nil {
		rolledBack := s.rollback(key, previous, hadPrevious, optimistic)
		if optimistic {
			log.Warn().Err(err).Bool("rolled_back", rolledBack).Msg("Cart mutation failed, optimistic update reverted")
		} else {
			log.Warn().Err(err).Msg("Cart mutation failed")
		}

		s.settle(ctx, userID, m, start, optimistic, rolledBack, err)
		return MutationOutcome{}, newMutationError(m.op, m.messageKey, err, rolledBack)
	}

	s.cache.Invalidate(key)
	outcome := MutationOutcome{Optimistic: optimistic, Settled: true}

	// On a *StaleError the returned cart is the last cached value, which
	// may be the optimistic value of a newer mutation.
	cart, err := s.cache.Refresh(ctx, key, s.fetcher(userID))
	if err != nil {
		outcome.Settled = false
		log.Warn().Err(err).Msg("Cart changed but could not be re-read")
	}
	outcome.Cart = cart

	s.settle(ctx, userID, m, start, optimistic, false, nil)
	return outcome, nil
}

// rollback restores the value captured before an optimistic write and marks
// it stale so the next read reconciles with the backend. It reports whether
// an optimistic value was undone.
func (s *CartServiceImpl) rollback(key string, previous model.CartSnapshot, hadPrevious, optimistic bool) bool {
	switch {
	case optimistic && hadPrevious:
		s.cache.Set(key, previous)
		s.cache.Invalidate(key)
		return true
	case optimistic:
		s.cache.Remove(key)
		return true
	default:
		s.cache.Invalidate(key)
		return false
	}
}

// settle records metrics and the audit entry of a finished mutation.
func (s *CartServiceImpl) settle(ctx context.Context, userID string, m mutation, start time.Time, optimistic, rolledBack bool, err error) {
	duration := s.now().Sub(start)
	outcome := model.OutcomeSuccess
	if err != nil {
		outcome = model.OutcomeFailed
	}
	metrics.RecordCartMutation(m.op, outcome, duration, rolledBack)

	if s.audit == nil {
		return
	}

	entry := &model.AuditEntry{
		Timestamp:  start,
		RequestID:  logger.RequestIDFromContext(ctx),
		UserID:     userID,
		Operation:  m.op,
		ItemID:     m.itemID,
		Outcome:    outcome,
		Optimistic: optimistic,
		RolledBack: rolledBack,
		Duration:   duration.Milliseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	for k, v := range m.fields {
		entry.WithField(k, v)
	}
	s.audit.Record(entry)
}
