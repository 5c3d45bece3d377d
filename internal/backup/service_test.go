package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/clients"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-pro/stockmaster/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(context.Background(), store.NoopPersister{}, logger)
	require.NoError(t, err)
	return st
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	err := st.Products().Mutate(ctx, func(products []catalog.Product) ([]catalog.Product, error) {
		return append(products, catalog.Product{ID: "prod-1", Name: "Clavier", Quantity: 4}), nil
	})
	require.NoError(t, err)
	err = st.Clients().Mutate(ctx, func(cs []clients.Client) ([]clients.Client, error) {
		return append(cs, clients.Client{ID: "cli-1", Name: "Aminata"}), nil
	})
	require.NoError(t, err)
}

func TestExportCarriesVersionAndCollections(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)
	svc := NewService(st)

	doc := svc.Export(context.Background())
	require.Equal(t, store.SnapshotVersion, doc.Version)
	require.False(t, doc.BackupDate.IsZero())
	require.Len(t, doc.Products, 1)
	require.Len(t, doc.Clients, 1)
	require.Equal(t, "STOCKMASTER PRO", doc.StoreConfig.Name)
}

func TestRestoreRejectsMissingProducts(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)
	svc := NewService(st)

	err := svc.Restore(context.Background(), []byte(`{"clients":[]}`))
	require.ErrorIs(t, err, httpx.ErrValidation)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Contains(t, vErr.Fields, "products")

	// Nothing was mutated.
	require.Len(t, st.Snapshot().Products, 1)
}

func TestRestoreRejectsNonArrayProducts(t *testing.T) {
	svc := NewService(newTestStore(t))

	for _, payload := range []string{
		`{"products": 42}`,
		`{"products": null}`,
		`not json at all`,
	} {
		err := svc.Restore(context.Background(), []byte(payload))
		require.ErrorIs(t, err, httpx.ErrValidation, payload)
	}
}

func TestRestoreProductsOnlyDefaultsRest(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st)

	err := svc.Restore(context.Background(), []byte(`{"products":[{"id":"prod-9","name":"Écran","quantity":2}]}`))
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Products, 1)
	require.Equal(t, "Écran", snap.Products[0].Name)
	require.NotNil(t, snap.Clients)
	require.Empty(t, snap.Clients)
	require.Equal(t, "STOCKMASTER PRO", snap.Config.Name)
}

func TestExportRestoreRoundTrip(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)
	ctx := context.Background()

	err := st.Orders().Mutate(ctx, func(orders []ledger.Order) ([]ledger.Order, error) {
		return append(orders, ledger.Order{
			ID:       "ord-1",
			ClientID: "cli-1",
			Items: []ledger.OrderItem{
				{ProductID: "prod-1", Quantity: 2, UnitPrice: 25, PaidAmount: 10},
			},
			TotalAmount: 50,
			PaidAmount:  10,
		}), nil
	})
	require.NoError(t, err)

	svc := NewService(st)
	data, err := json.Marshal(svc.Export(ctx))
	require.NoError(t, err)

	restored := newTestStore(t)
	err = NewService(restored).Restore(ctx, data)
	require.NoError(t, err)

	snap := restored.Snapshot()
	require.Len(t, snap.Products, 1)
	require.Len(t, snap.Clients, 1)
	require.Len(t, snap.Orders, 1)
	require.Equal(t, ledger.StatusPartiallyPaid, snap.Orders[0].Status)
	require.InDelta(t, 10, snap.Orders[0].PaidAmount, 1e-9)
}

func TestResetWipesState(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)
	svc := NewService(st)

	require.NoError(t, svc.Reset(context.Background()))
	require.Empty(t, st.Snapshot().Products)
}

func TestWriteFile(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)
	svc := NewService(st)

	dir := t.TempDir()
	path, err := svc.WriteFile(context.Background(), dir)
	require.NoError(t, err)
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := ParseDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Products, 1)
}
