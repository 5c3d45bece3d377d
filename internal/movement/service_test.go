package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryTxStore struct {
	txs []Transaction
}

func (m *memoryTxStore) View(fn func(txs []Transaction)) {
	fn(m.txs)
}

func (m *memoryTxStore) Mutate(ctx context.Context, fn func(txs []Transaction) ([]Transaction, error)) error {
	next, err := fn(m.txs)
	if err != nil {
		return err
	}
	m.txs = next
	return nil
}

func TestDerive(t *testing.T) {
	typ, qty, err := Derive(10, 4)
	require.NoError(t, err)
	require.Equal(t, TypeOut, typ)
	require.Equal(t, 6, qty)

	typ, qty, err = Derive(4, 9)
	require.NoError(t, err)
	require.Equal(t, TypeIn, typ)
	require.Equal(t, 5, qty)

	_, _, err = Derive(4, 4)
	require.ErrorIs(t, err, ErrNoChange)
}

func TestRecordChange(t *testing.T) {
	st := &memoryTxStore{}
	svc := NewService(NewRepository(st))
	ctx := context.Background()

	require.NoError(t, svc.RecordChange(ctx, "prod-a", 0, 12, "alice"))
	require.NoError(t, svc.RecordChange(ctx, "prod-a", 12, 7, ""))

	txs, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Newest first.
	require.Equal(t, TypeOut, txs[0].Type)
	require.Equal(t, 5, txs[0].Quantity)
	require.Equal(t, "Admin", txs[0].User)

	require.Equal(t, TypeIn, txs[1].Type)
	require.Equal(t, 12, txs[1].Quantity)
	require.Equal(t, "alice", txs[1].User)
	require.NotEmpty(t, txs[1].ID)
}

func TestRecordChangeNoDelta(t *testing.T) {
	st := &memoryTxStore{}
	svc := NewService(NewRepository(st))

	require.NoError(t, svc.RecordChange(context.Background(), "prod-a", 3, 3, "Admin"))
	txs, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestListFilters(t *testing.T) {
	st := &memoryTxStore{}
	svc := NewService(NewRepository(st))
	ctx := context.Background()

	require.NoError(t, svc.RecordChange(ctx, "prod-a", 0, 5, "Admin"))
	require.NoError(t, svc.RecordChange(ctx, "prod-b", 0, 3, "Admin"))
	require.NoError(t, svc.RecordChange(ctx, "prod-a", 5, 2, "Admin"))

	byProduct, err := svc.List(ctx, Filter{ProductID: "prod-a"})
	require.NoError(t, err)
	require.Len(t, byProduct, 2)

	byType, err := svc.List(ctx, Filter{Type: TypeIn})
	require.NoError(t, err)
	require.Len(t, byType, 2)

	limited, err := svc.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "prod-a", limited[0].ProductID)
	require.Equal(t, TypeOut, limited[0].Type)
}
