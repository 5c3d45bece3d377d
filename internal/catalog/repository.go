package catalog

import (
	"context"
	"fmt"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// Store is the product-collection view provided by the state container.
type Store interface {
	View(fn func(products []Product))
	Mutate(ctx context.Context, fn func(products []Product) ([]Product, error)) error
}

// Repository defines data access for the catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []Product) error
}

type storeRepository struct {
	st Store
}

// NewRepository builds a Repository over the state container.
func NewRepository(st Store) Repository {
	return &storeRepository{st: st}
}

func (r *storeRepository) List(ctx context.Context) ([]Product, error) {
	var out []Product
	r.st.View(func(products []Product) {
		out = append(out, products...)
	})
	return out, nil
}

func (r *storeRepository) Get(ctx context.Context, id string) (*Product, error) {
	var found *Product
	r.st.View(func(products []Product) {
		for i := range products {
			if products[i].ID == id {
				p := products[i]
				found = &p
				return
			}
		}
	})
	if found == nil {
		return nil, fmt.Errorf("product %s: %w", id, httpx.ErrNotFound)
	}
	return found, nil
}

func (r *storeRepository) Create(ctx context.Context, p Product) error {
	return r.st.Mutate(ctx, func(products []Product) ([]Product, error) {
		// Newest entries go first, matching list order.
		return append([]Product{p}, products...), nil
	})
}

func (r *storeRepository) Update(ctx context.Context, p Product) error {
	return r.st.Mutate(ctx, func(products []Product) ([]Product, error) {
		for i := range products {
			if products[i].ID == p.ID {
				products[i] = p
				return products, nil
			}
		}
		return nil, fmt.Errorf("product %s: %w", p.ID, httpx.ErrNotFound)
	})
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	return r.st.Mutate(ctx, func(products []Product) ([]Product, error) {
		for i := range products {
			if products[i].ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("product %s: %w", id, httpx.ErrNotFound)
	})
}

func (r *storeRepository) ReplaceAll(ctx context.Context, next []Product) error {
	return r.st.Mutate(ctx, func([]Product) ([]Product, error) {
		return next, nil
	})
}
