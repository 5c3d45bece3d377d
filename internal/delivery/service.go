package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// defaultETA is the shipping estimate applied at generation time.
const defaultETA = 7 * 24 * time.Hour

// OrderLookup verifies that the referenced order exists. Implemented
// by the ledger service.
type OrderLookup interface {
	Exists(ctx context.Context, orderID string) bool
}

// Service handles delivery business logic.
type Service struct {
	repo   Repository
	orders OrderLookup
}

// NewService builds Service instance.
func NewService(repo Repository, orders OrderLookup) *Service {
	return &Service{repo: repo, orders: orders}
}

// GenerateForOrder creates the shipment record for an order: status
// pending_shipment, ETA seven days out, empty carrier and tracking.
// An order carries at most one delivery.
func (s *Service) GenerateForOrder(ctx context.Context, orderID string) (*Delivery, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", httpx.ErrValidation)
	}
	if s.orders != nil && !s.orders.Exists(ctx, orderID) {
		return nil, fmt.Errorf("order %s: %w", orderID, httpx.ErrNotFound)
	}
	exists, err := s.repo.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("order %s already has a delivery: %w", orderID, httpx.ErrDuplicate)
	}
	d := Delivery{
		ID:               uuid.NewString(),
		OrderID:          orderID,
		Status:           StatusPendingShipment,
		EstimatedArrival: time.Now().UTC().Add(defaultETA),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}
	return &d, nil
}

// UpdateInput carries the logistics edits. Nil fields are untouched.
type UpdateInput struct {
	Carrier          *string
	TrackingNumber   *string
	Status           *Status
	EstimatedArrival *time.Time
	ActualArrival    *time.Time
	ShippedDate      *time.Time
	Notes            *string
}

// Update mutates the freely editable logistics fields.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Delivery, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		if !in.Status.Known() {
			return nil, fmt.Errorf("unknown delivery status %q: %w", *in.Status, httpx.ErrValidation)
		}
		d.Status = *in.Status
	}
	if in.Carrier != nil {
		d.Carrier = *in.Carrier
	}
	if in.TrackingNumber != nil {
		d.TrackingNumber = *in.TrackingNumber
	}
	if in.EstimatedArrival != nil {
		d.EstimatedArrival = *in.EstimatedArrival
	}
	if in.ActualArrival != nil {
		d.ActualArrival = in.ActualArrival
	}
	if in.ShippedDate != nil {
		d.ShippedDate = in.ShippedDate
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	if err := s.repo.Update(ctx, *d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns one delivery.
func (s *Service) Get(ctx context.Context, id string) (*Delivery, error) {
	return s.repo.Get(ctx, id)
}

// List returns deliveries newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status Status) ([]Delivery, error) {
	deliveries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return deliveries, nil
	}
	out := make([]Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}
