package clients

import (
	"context"
	"fmt"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// Store is the client-collection view provided by the state container.
type Store interface {
	View(fn func(clients []Client))
	Mutate(ctx context.Context, fn func(clients []Client) ([]Client, error)) error
}

// Repository defines data access for the registry.
type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	Delete(ctx context.Context, id string) error
}

type storeRepository struct {
	st Store
}

// NewRepository builds a Repository over the state container.
func NewRepository(st Store) Repository {
	return &storeRepository{st: st}
}

func (r *storeRepository) List(ctx context.Context) ([]Client, error) {
	var out []Client
	r.st.View(func(clients []Client) {
		out = append(out, clients...)
	})
	return out, nil
}

func (r *storeRepository) Get(ctx context.Context, id string) (*Client, error) {
	var found *Client
	r.st.View(func(clients []Client) {
		for i := range clients {
			if clients[i].ID == id {
				c := clients[i]
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	}
	return found, nil
}

func (r *storeRepository) Create(ctx context.Context, c Client) error {
	return r.st.Mutate(ctx, func(clients []Client) ([]Client, error) {
		return append([]Client{c}, clients...), nil
	})
}

func (r *storeRepository) Update(ctx context.Context, c Client) error {
	return r.st.Mutate(ctx, func(clients []Client) ([]Client, error) {
		for i := range clients {
			if clients[i].ID == c.ID {
				clients[i] = c
				return clients, nil
			}
		}
		return nil, fmt.Errorf("client %s: %w", c.ID, httpx.ErrNotFound)
	})
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	return r.st.Mutate(ctx, func(clients []Client) ([]Client, error) {
		for i := range clients {
			if clients[i].ID == id {
				return append(clients[:i], clients[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	})
}
