package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

type memoryDeliveryStore struct {
	deliveries []Delivery
}

func (m *memoryDeliveryStore) View(fn func(deliveries []Delivery)) {
	fn(m.deliveries)
}

func (m *memoryDeliveryStore) Mutate(ctx context.Context, fn func(deliveries []Delivery) ([]Delivery, error)) error {
	next, err := fn(m.deliveries)
	if err != nil {
		return err
	}
	m.deliveries = next
	return nil
}

type stubOrders struct {
	known map[string]bool
}

func (s *stubOrders) Exists(ctx context.Context, orderID string) bool {
	return s.known[orderID]
}

func newTestService() *Service {
	st := &memoryDeliveryStore{}
	orders := &stubOrders{known: map[string]bool{"ord-1": true, "ord-2": true}}
	return NewService(NewRepository(st), orders)
}

func TestGenerateForOrderDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d, err := svc.GenerateForOrder(ctx, "ord-1")
	require.NoError(t, err)

	require.NotEmpty(t, d.ID)
	require.Equal(t, "ord-1", d.OrderID)
	require.Equal(t, StatusPendingShipment, d.Status)
	require.Empty(t, d.Carrier)
	require.Empty(t, d.TrackingNumber)
	require.Nil(t, d.ActualArrival)
	require.Nil(t, d.ShippedDate)

	eta := time.Until(d.EstimatedArrival)
	require.Greater(t, eta, 6*24*time.Hour)
	require.LessOrEqual(t, eta, 7*24*time.Hour)
}

func TestGenerateForOrderRejectsDuplicates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.GenerateForOrder(ctx, "ord-1")
	require.NoError(t, err)

	_, err = svc.GenerateForOrder(ctx, "ord-1")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestGenerateForOrderUnknownOrder(t *testing.T) {
	svc := newTestService()

	_, err := svc.GenerateForOrder(context.Background(), "missing")
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.GenerateForOrder(context.Background(), "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func strPtr(s string) *string    { return &s }
func statusPtr(s Status) *Status { return &s }

func TestUpdateLogisticsFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d, err := svc.GenerateForOrder(ctx, "ord-1")
	require.NoError(t, err)

	shipped := time.Now().UTC()
	out, err := svc.Update(ctx, d.ID, UpdateInput{
		Carrier:        strPtr("DHL"),
		TrackingNumber: strPtr("TRK-42"),
		Status:         statusPtr(StatusShipped),
		ShippedDate:    &shipped,
	})
	require.NoError(t, err)

	require.Equal(t, "DHL", out.Carrier)
	require.Equal(t, "TRK-42", out.TrackingNumber)
	require.Equal(t, StatusShipped, out.Status)
	require.NotNil(t, out.ShippedDate)
	// Untouched fields stay as generated.
	require.Equal(t, d.EstimatedArrival, out.EstimatedArrival)
	require.Nil(t, out.ActualArrival)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d, err := svc.GenerateForOrder(ctx, "ord-1")
	require.NoError(t, err)

	_, err = svc.Update(ctx, d.ID, UpdateInput{Status: statusPtr("lost")})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Update(ctx, "missing", UpdateInput{})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.GenerateForOrder(ctx, "ord-1")
	require.NoError(t, err)
	_, err = svc.GenerateForOrder(ctx, "ord-2")
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.ID, UpdateInput{Status: statusPtr(StatusDelivered)})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	delivered, err := svc.List(ctx, StatusDelivered)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	require.Equal(t, first.ID, delivered[0].ID)
}

func TestLate(t *testing.T) {
	now := time.Now().UTC()
	d := Delivery{Status: StatusShipped, EstimatedArrival: now.Add(-time.Hour)}
	require.True(t, d.Late(now))

	d.Status = StatusDelivered
	require.False(t, d.Late(now))

	d = Delivery{Status: StatusShipped, EstimatedArrival: now.Add(time.Hour)}
	require.False(t, d.Late(now))
}
