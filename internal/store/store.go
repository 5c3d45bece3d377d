package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/clients"
	"github.com/stockmaster-pro/stockmaster/internal/delivery"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/movement"
	"github.com/stockmaster-pro/stockmaster/internal/settings"
)

// Persister is the external persistence adapter: one atomic snapshot
// in, one atomic snapshot out.
type Persister interface {
	// Load returns the stored state, or nil when none exists yet.
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st State) error
}

// Store serializes all state mutations and persists after each one.
// Persistence is best-effort: a failed save is logged and the
// in-memory state remains the source of truth for the session.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
	logger    *slog.Logger
}

// Open loads the persisted state, falling back to the factory state
// when nothing is stored yet. A corrupt snapshot fails startup.
func Open(ctx context.Context, p Persister, logger *slog.Logger) (*Store, error) {
	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	st := DefaultState()
	if loaded != nil {
		st = *loaded
	}
	st.normalize()
	return &Store{state: st, persister: p, logger: logger}, nil
}

func (s *Store) persist(ctx context.Context) {
	if err := s.persister.Save(ctx, s.state.Clone()); err != nil {
		s.logger.Warn("persist state", slog.Any("error", err))
	}
}

// Snapshot returns a deep copy of the complete state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Replace swaps in a whole new state, normalizing it first. Used by
// restore: a destructive wholesale replace, not a merge.
func (s *Store) Replace(ctx context.Context, next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next.normalize()
	s.state = next
	s.persist(ctx)
	return nil
}

// Reset returns every collection to factory defaults.
func (s *Store) Reset(ctx context.Context) error {
	return s.Replace(ctx, DefaultState())
}

// Products returns the catalog view of the state.
func (s *Store) Products() catalog.Store { return productsView{s} }

// Clients returns the registry view of the state.
func (s *Store) Clients() clients.Store { return clientsView{s} }

// Orders returns the ledger view of the state.
func (s *Store) Orders() ledger.Store { return ordersView{s} }

// Deliveries returns the delivery view of the state.
func (s *Store) Deliveries() delivery.Store { return deliveriesView{s} }

// Transactions returns the movement-log view of the state.
func (s *Store) Transactions() movement.Store { return transactionsView{s} }

// Settings returns the configuration view of the state.
func (s *Store) Settings() settings.Store { return settingsView{s} }

type productsView struct{ s *Store }

func (v productsView) View(fn func([]catalog.Product)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.state.Products)
}

func (v productsView) Mutate(ctx context.Context, fn func([]catalog.Product) ([]catalog.Product, error)) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	next, err := fn(v.s.state.Products)
	if err != nil {
		return err
	}
	v.s.state.Products = next
	v.s.persist(ctx)
	return nil
}

type clientsView struct{ s *Store }

func (v clientsView) View(fn func([]clients.Client)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.state.Clients)
}

func (v clientsView) Mutate(ctx context.Context, fn func([]clients.Client) ([]clients.Client, error)) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	next, err := fn(v.s.state.Clients)
	if err != nil {
		return err
	}
	v.s.state.Clients = next
	v.s.persist(ctx)
	return nil
}

type ordersView struct{ s *Store }

func (v ordersView) View(fn func([]ledger.Order)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.state.Orders)
}

func (v ordersView) Mutate(ctx context.Context, fn func([]ledger.Order) ([]ledger.Order, error)) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	next, err := fn(v.s.state.Orders)
	if err != nil {
		return err
	}
	v.s.state.Orders = next
	v.s.persist(ctx)
	return nil
}

type deliveriesView struct{ s *Store }

func (v deliveriesView) View(fn func([]delivery.Delivery)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.state.Deliveries)
}

func (v deliveriesView) Mutate(ctx context.Context, fn func([]delivery.Delivery) ([]delivery.Delivery, error)) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	next, err := fn(v.s.state.Deliveries)
	if err != nil {
		return err
	}
	v.s.state.Deliveries = next
	v.s.persist(ctx)
	return nil
}

type transactionsView struct{ s *Store }

func (v transactionsView) View(fn func([]movement.Transaction)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.state.Transactions)
}

func (v transactionsView) Mutate(ctx context.Context, fn func([]movement.Transaction) ([]movement.Transaction, error)) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	next, err := fn(v.s.state.Transactions)
	if err != nil {
		return err
	}
	v.s.state.Transactions = next
	v.s.persist(ctx)
	return nil
}

type settingsView struct{ s *Store }

func (v settingsView) ViewConfig(fn func(settings.StoreConfig)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.state.Config)
}

func (v settingsView) MutateConfig(ctx context.Context, fn func(settings.StoreConfig) (settings.StoreConfig, error)) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	next, err := fn(v.s.state.Config)
	if err != nil {
		return err
	}
	v.s.state.Config = next
	v.s.persist(ctx)
	return nil
}
