package ledger

import (
	"context"
	"fmt"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// Store is the order-collection view provided by the state container.
type Store interface {
	View(fn func(orders []Order))
	Mutate(ctx context.Context, fn func(orders []Order) ([]Order, error)) error
}

// Repository defines data access for the order ledger.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	// Upsert replaces the order with the same id in place, or prepends
	// it when the id is new. Returns true when the order was created.
	Upsert(ctx context.Context, o Order) (bool, error)
}

type storeRepository struct {
	st Store
}

// NewRepository builds a Repository over the state container.
func NewRepository(st Store) Repository {
	return &storeRepository{st: st}
}

func (r *storeRepository) List(ctx context.Context) ([]Order, error) {
	var out []Order
	r.st.View(func(orders []Order) {
		out = make([]Order, 0, len(orders))
		for i := range orders {
			out = append(out, orders[i].Clone())
		}
	})
	return out, nil
}

func (r *storeRepository) Get(ctx context.Context, id string) (*Order, error) {
	var found *Order
	r.st.View(func(orders []Order) {
		for i := range orders {
			if orders[i].ID == id {
				o := orders[i].Clone()
				found = &o
				return
			}
		}
	})
	if found == nil {
		return nil, fmt.Errorf("order %s: %w", id, httpx.ErrNotFound)
	}
	return found, nil
}

func (r *storeRepository) Upsert(ctx context.Context, o Order) (bool, error) {
	created := false
	err := r.st.Mutate(ctx, func(orders []Order) ([]Order, error) {
		for i := range orders {
			if orders[i].ID == o.ID {
				orders[i] = o
				return orders, nil
			}
		}
		created = true
		return append([]Order{o}, orders...), nil
	})
	return created, err
}
