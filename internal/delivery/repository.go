package delivery

import (
	"context"
	"fmt"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// Store is the delivery-collection view provided by the state container.
type Store interface {
	View(fn func(deliveries []Delivery))
	Mutate(ctx context.Context, fn func(deliveries []Delivery) ([]Delivery, error)) error
}

// Repository defines data access for deliveries.
type Repository interface {
	List(ctx context.Context) ([]Delivery, error)
	Get(ctx context.Context, id string) (*Delivery, error)
	Create(ctx context.Context, d Delivery) error
	Update(ctx context.Context, d Delivery) error
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
}

type storeRepository struct {
	st Store
}

// NewRepository builds a Repository over the state container.
func NewRepository(st Store) Repository {
	return &storeRepository{st: st}
}

func (r *storeRepository) List(ctx context.Context) ([]Delivery, error) {
	var out []Delivery
	r.st.View(func(deliveries []Delivery) {
		out = append(out, deliveries...)
	})
	return out, nil
}

func (r *storeRepository) Get(ctx context.Context, id string) (*Delivery, error) {
	var found *Delivery
	r.st.View(func(deliveries []Delivery) {
		for i := range deliveries {
			if deliveries[i].ID == id {
				d := deliveries[i]
				found = &d
				return
			}
		}
	})
	if found == nil {
		return nil, fmt.Errorf("delivery %s: %w", id, httpx.ErrNotFound)
	}
	return found, nil
}

func (r *storeRepository) Create(ctx context.Context, d Delivery) error {
	return r.st.Mutate(ctx, func(deliveries []Delivery) ([]Delivery, error) {
		return append([]Delivery{d}, deliveries...), nil
	})
}

func (r *storeRepository) Update(ctx context.Context, d Delivery) error {
	return r.st.Mutate(ctx, func(deliveries []Delivery) ([]Delivery, error) {
		for i := range deliveries {
			if deliveries[i].ID == d.ID {
				deliveries[i] = d
				return deliveries, nil
			}
		}
		return nil, fmt.Errorf("delivery %s: %w", d.ID, httpx.ErrNotFound)
	})
}

func (r *storeRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	exists := false
	r.st.View(func(deliveries []Delivery) {
		for i := range deliveries {
			if deliveries[i].OrderID == orderID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}
