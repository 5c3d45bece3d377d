package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// MovementRecorder appends a stock transaction derived from a quantity
// change. Implemented by the movement service.
type MovementRecorder interface {
	RecordChange(ctx context.Context, productID string, oldQty, newQty int, user string) error
}

// Service coordinates catalog operations.
type Service struct {
	repo     Repository
	recorder MovementRecorder
}

// NewService builds Service instance.
func NewService(repo Repository, recorder MovementRecorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required: %w", httpx.ErrValidation)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative: %w", httpx.ErrValidation)
	}
	if p.MinThreshold < 0 {
		return fmt.Errorf("threshold must not be negative: %w", httpx.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", httpx.ErrValidation)
	}
	return nil
}

// Create registers a new product. An initial positive quantity is
// logged as an inbound movement.
func (s *Service) Create(ctx context.Context, p Product, user string) (*Product, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.LastUpdated = time.Now().UTC()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if p.Quantity > 0 {
		if err := s.recorder.RecordChange(ctx, p.ID, 0, p.Quantity, user); err != nil {
			return nil, fmt.Errorf("record initial stock: %w", err)
		}
	}
	return &p, nil
}

// Update edits product fields. Quantity changes go through SetQuantity
// so the movement log stays complete; Update keeps the stored quantity.
func (s *Service) Update(ctx context.Context, p Product) (*Product, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Quantity = existing.Quantity
	p.LastUpdated = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &p, nil
}

// Delete removes a product. Orders referencing it keep their dangling
// line and resolve it to a placeholder label at read time.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// SetQuantity sets a product's stock to an absolute value and appends
// the derived movement. A zero delta records nothing.
func (s *Service) SetQuantity(ctx context.Context, id string, newQty int, user string) (*Product, error) {
	if newQty < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", httpx.ErrValidation)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldQty := existing.Quantity
	existing.Quantity = newQty
	existing.LastUpdated = time.Now().UTC()
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	if err := s.recorder.RecordChange(ctx, id, oldQty, newQty, user); err != nil {
		return nil, fmt.Errorf("record movement: %w", err)
	}
	return existing, nil
}

// Deduct lowers stock by qty for order fulfilment, one movement per
// call. A missing product is tolerated: the order keeps its line and
// no movement is recorded.
func (s *Service) Deduct(ctx context.Context, productID string, qty int, user string) error {
	existing, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil
	}
	newQty := existing.Quantity - qty
	if newQty < 0 {
		newQty = 0
	}
	_, err = s.SetQuantity(ctx, productID, newQty, user)
	return err
}

// BulkImport replaces the whole catalog with the supplied products,
// assigning ids and timestamps where absent. No movements are derived;
// an import is a baseline reset, not a stock mutation.
func (s *Service) BulkImport(ctx context.Context, products []Product) error {
	now := time.Now().UTC()
	for i := range products {
		if err := s.validate(products[i]); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		if products[i].LastUpdated.IsZero() {
			products[i].LastUpdated = now
		}
	}
	return s.repo.ReplaceAll(ctx, products)
}

// List returns products filtered and ordered per the query.
func (s *Service) List(ctx context.Context, q Query) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term := fold(strings.TrimSpace(q.Search))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if !matches(p, term) {
			continue
		}
		out = append(out, p)
	}
	if q.SortBy != "" {
		sortProducts(out, q.SortBy, q.Ascending)
	}
	return out, nil
}

// LowStock returns products at or below their threshold.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Product
	for _, p := range products {
		if p.LowStock() || p.Quantity == 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// ComputeStats summarises the catalog for the dashboard.
func (s *Service) ComputeStats(ctx context.Context) (Stats, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, p := range products {
		st.TotalValue += p.Price * float64(p.Quantity)
		st.TotalItems += p.Quantity
		if p.LowStock() {
			st.LowStockCount++
		}
		if p.Quantity == 0 {
			st.OutOfStock++
		}
	}
	return st, nil
}

func sortProducts(products []Product, key SortKey, asc bool) {
	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch key {
		case SortByQuantity:
			less = products[i].Quantity < products[j].Quantity
		case SortByPrice:
			less = products[i].Price < products[j].Price
		default:
			less = fold(products[i].Name) < fold(products[j].Name)
		}
		if asc {
			return less
		}
		return !less
	})
}
