package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// StockDeducter lowers catalog stock for order fulfilment, recording
// one movement per line. Implemented by the catalog service.
type StockDeducter interface {
	Deduct(ctx context.Context, productID string, qty int, user string) error
}

// Service handles order ledger business logic.
type Service struct {
	repo  Repository
	stock StockDeducter
}

// NewService builds Service instance.
func NewService(repo Repository, stock StockDeducter) *Service {
	return &Service{repo: repo, stock: stock}
}

func validateNewOrder(o Order) error {
	if o.ClientID == "" {
		return fmt.Errorf("client id is required: %w", httpx.ErrValidation)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order needs at least one line: %w", httpx.ErrValidation)
	}
	seen := make(map[string]bool, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID == "" {
			return fmt.Errorf("line product id is required: %w", httpx.ErrValidation)
		}
		if seen[it.ProductID] {
			return fmt.Errorf("duplicate line for product %s: %w", it.ProductID, httpx.ErrValidation)
		}
		seen[it.ProductID] = true
		if it.Quantity <= 0 {
			return fmt.Errorf("line quantity must be positive: %w", httpx.ErrValidation)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("line unit price must not be negative: %w", httpx.ErrValidation)
		}
	}
	return nil
}

// Upsert creates an order, or replaces the stored order wholesale when
// the id already exists. Creation and update deliberately share this
// one entry point keyed by id equality; only genuine creation consumes
// catalog stock.
func (s *Service) Upsert(ctx context.Context, o Order, user string) (*Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	existing, err := s.repo.Get(ctx, o.ID)
	if err == nil && existing != nil {
		return s.replace(ctx, o)
	}

	if err := validateNewOrder(o); err != nil {
		return nil, err
	}
	var total float64
	for i := range o.Items {
		o.Items[i].PaidAmount = 0
		total += o.Items[i].Total()
	}
	o.TotalAmount = total
	o.PaidAmount = 0
	o.Payments = []PaymentRecord{}
	o.Schedules = []PaymentSchedule{}
	o.Date = time.Now().UTC()
	o.RecomputeStatus()

	if _, err := s.repo.Upsert(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Stock is consumed per line, one OUT movement each. A line whose
	// product has vanished from the catalog is skipped.
	for _, it := range o.Items {
		if err := s.stock.Deduct(ctx, it.ProductID, it.Quantity, user); err != nil {
			return nil, fmt.Errorf("deduct stock for %s: %w", it.ProductID, err)
		}
	}
	return &o, nil
}

// replace stores the submitted order over the existing one. The
// derived status is recomputed and the reconciliation invariant is
// checked before anything is written.
func (s *Service) replace(ctx context.Context, o Order) (*Order, error) {
	if err := validateNewOrder(o); err != nil {
		return nil, err
	}
	o.RecomputeStatus()
	if err := o.Reconcile(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Upsert(ctx, o); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}
	return &o, nil
}

// ApplyPayment applies a payment to an order, auto or manual per the
// input, and persists the mutated order.
func (s *Service) ApplyPayment(ctx context.Context, orderID string, in PaymentInput) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := o.ApplyPayment(in); err != nil {
		return nil, err
	}
	if _, err := s.repo.Upsert(ctx, *o); err != nil {
		return nil, fmt.Errorf("store payment: %w", err)
	}
	return o, nil
}

// Exists reports whether an order with the given id is stored.
func (s *Service) Exists(ctx context.Context, id string) bool {
	_, err := s.repo.Get(ctx, id)
	return err == nil
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}
