package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
	cartRepository "hema-storefront/internal/repository/cart"

	"github.com/rs/zerolog/log"
)

// ErrSyncFailed is returned when a cart change could not be written to the backend.
// The in-memory cart is left as it was before the change.
var ErrSyncFailed = errors.New("cart sync failed")

// Notifier receives the cart after every committed change, in commit order.
// Notify is called with the cart locked and must not block for long.
type Notifier interface {
	Notify(ctx context.Context, snapshot model.CartSnapshot) error
}

// Synchronizer owns the cart of one customer. Every change is applied to a copy,
// written through to the backend and only then committed. Changes are applied one
// at a time in the order they arrive.
type Synchronizer struct {
	repo       cartRepository.IRepository
	customerID string
	notifier   Notifier

	mu    sync.Mutex
	items []model.CartItem
}

func NewSynchronizer(repo cartRepository.IRepository, customerID string, notifier Notifier) *Synchronizer {
	return &Synchronizer{
		repo:       repo,
		customerID: customerID,
		notifier:   notifier,
		items:      []model.CartItem{},
	}
}

// Load replaces the in-memory cart with the stored one. A missing or unreadable
// row leaves an empty cart. Changes wait until the stored cart has been read.
func (s *Synchronizer) Load(ctx context.Context) model.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Get(ctx, s.customerID)
	switch {
	case errors.Is(err, ierr.NotFound):
		log.Info().Str("customer", s.customerID).Msg("cart: no stored cart, starting empty")
		items = []model.CartItem{}
	case err != nil:
		log.Error().Err(err).Str("customer", s.customerID).Msg("cart: failed to load, starting empty")
		items = []model.CartItem{}
	case items == nil:
		items = []model.CartItem{}
	}

	s.items = items
	snap := s.snapshot()
	s.notify(ctx, snap)
	return snap
}

// AddToCart adds item, or bumps the quantity of the item with the same name by one.
func (s *Synchronizer) AddToCart(ctx context.Context, item model.CartItem) (model.CartSnapshot, error) {
	return s.apply(ctx, Action{Kind: ActionAdd, Item: item})
}

// UpdateQuantity moves the quantity of nome one step in d. It never drops below 1.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, nome string, d Direction) (model.CartSnapshot, error) {
	return s.apply(ctx, d.action(nome))
}

func (s *Synchronizer) RemoveItem(ctx context.Context, nome string) (model.CartSnapshot, error) {
	return s.apply(ctx, Action{Kind: ActionRemove, Nome: nome})
}

func (s *Synchronizer) Clear(ctx context.Context) (model.CartSnapshot, error) {
	return s.apply(ctx, Action{Kind: ActionClear})
}

// Items returns a copy of the current cart.
func (s *Synchronizer) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

func (s *Synchronizer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Count(s.items)
}

func (s *Synchronizer) Snapshot() model.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Synchronizer) apply(ctx context.Context, a Action) (model.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Reduce(s.items, a)
	if err := s.repo.Upsert(ctx, s.customerID, next); err != nil {
		log.Error().Err(err).Str("customer", s.customerID).Msg("cart: write-through failed, change rolled back")
		return s.snapshot(), fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	s.items = next
	snap := s.snapshot()
	s.notify(ctx, snap)
	return snap, nil
}

func (s *Synchronizer) snapshot() model.CartSnapshot {
	return model.CartSnapshot{
		Items: clone(s.items),
		Count: Count(s.items),
	}
}

func (s *Synchronizer) notify(ctx context.Context, snap model.CartSnapshot) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, snap); err != nil {
		log.Debug().Err(err).Msg("cart: snapshot not published")
	}
}
