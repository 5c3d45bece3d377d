package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/settings"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenFreshInstallation(t *testing.T) {
	st, err := Open(context.Background(), NoopPersister{}, testLogger())
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Empty(t, snap.Products)
	require.Empty(t, snap.Orders)
	require.Equal(t, "STOCKMASTER PRO", snap.Config.Name)
	require.Equal(t, settings.DefaultPIN, snap.Config.PINCode)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "state.json")
	p := NewFilePersister(path)

	st, err := Open(ctx, p, testLogger())
	require.NoError(t, err)

	err = st.Products().Mutate(ctx, func(products []catalog.Product) ([]catalog.Product, error) {
		return append(products, catalog.Product{ID: "prod-1", Name: "Clavier", Quantity: 4}), nil
	})
	require.NoError(t, err)

	// A second open over the same file sees the mutation.
	reopened, err := Open(ctx, p, testLogger())
	require.NoError(t, err)
	snap := reopened.Snapshot()
	require.Len(t, snap.Products, 1)
	require.Equal(t, "Clavier", snap.Products[0].Name)
}

func TestFilePersisterMissingFileIsFresh(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "absent.json"))
	loaded, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestOpenCorruptSnapshotFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(context.Background(), NewFilePersister(path), testLogger())
	require.Error(t, err)
}

func TestReplaceNormalizes(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, NoopPersister{}, testLogger())
	require.NoError(t, err)

	err = st.Replace(ctx, State{
		Products: []catalog.Product{{ID: "prod-1", Name: "Écran"}},
		Orders: []ledger.Order{{
			ID:          "ord-1",
			ClientID:    "cli-1",
			TotalAmount: 100,
			PaidAmount:  100,
			Status:      ledger.StatusDraft, // stale; must be recomputed
		}},
	})
	require.NoError(t, err)

	snap := st.Snapshot()
	require.NotNil(t, snap.Clients)
	require.NotNil(t, snap.Transactions)
	require.Equal(t, ledger.StatusPaid, snap.Orders[0].Status)
	require.NotNil(t, snap.Orders[0].Items)
	require.NotNil(t, snap.Orders[0].Payments)
	require.Equal(t, settings.DefaultPIN, snap.Config.PINCode)
}

func TestResetRestoresFactoryState(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, NoopPersister{}, testLogger())
	require.NoError(t, err)

	err = st.Products().Mutate(ctx, func(products []catalog.Product) ([]catalog.Product, error) {
		return append(products, catalog.Product{ID: "prod-1", Name: "Câble"}), nil
	})
	require.NoError(t, err)

	require.NoError(t, st.Reset(ctx))
	snap := st.Snapshot()
	require.Empty(t, snap.Products)
	require.Equal(t, "STOCKMASTER PRO", snap.Config.Name)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, NoopPersister{}, testLogger())
	require.NoError(t, err)

	err = st.Orders().Mutate(ctx, func(orders []ledger.Order) ([]ledger.Order, error) {
		return append(orders, ledger.Order{
			ID:          "ord-1",
			ClientID:    "cli-1",
			Items:       []ledger.OrderItem{{ProductID: "prod-1", Quantity: 1, UnitPrice: 10}},
			TotalAmount: 10,
		}), nil
	})
	require.NoError(t, err)

	snap := st.Snapshot()
	snap.Orders[0].Items[0].PaidAmount = 999

	again := st.Snapshot()
	require.InDelta(t, 0, again.Orders[0].Items[0].PaidAmount, 1e-9)
}
