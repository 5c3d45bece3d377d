package movement

import "context"

// Store is the transaction-log view provided by the state container.
type Store interface {
	View(fn func(txs []Transaction))
	Mutate(ctx context.Context, fn func(txs []Transaction) ([]Transaction, error)) error
}

// Repository defines data access for the transaction log.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Transaction, error)
	Append(ctx context.Context, tx Transaction) error
}

type storeRepository struct {
	st Store
}

// NewRepository builds a Repository over the state container.
func NewRepository(st Store) Repository {
	return &storeRepository{st: st}
}

func (r *storeRepository) List(ctx context.Context, filter Filter) ([]Transaction, error) {
	var out []Transaction
	r.st.View(func(txs []Transaction) {
		for _, tx := range txs {
			if filter.ProductID != "" && tx.ProductID != filter.ProductID {
				continue
			}
			if filter.Type != "" && tx.Type != filter.Type {
				continue
			}
			out = append(out, tx)
			if filter.Limit > 0 && len(out) >= filter.Limit {
				return
			}
		}
	})
	return out, nil
}

func (r *storeRepository) Append(ctx context.Context, tx Transaction) error {
	return r.st.Mutate(ctx, func(txs []Transaction) ([]Transaction, error) {
		// Newest first, matching the order the log is read in.
		return append([]Transaction{tx}, txs...), nil
	})
}
