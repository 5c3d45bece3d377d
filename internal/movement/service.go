package movement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultUser = "Admin"

// Service coordinates the stock transaction log.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordChange derives and appends the movement for a product quantity
// change. A zero delta is not an error for callers; it simply records
// nothing.
func (s *Service) RecordChange(ctx context.Context, productID string, oldQty, newQty int, user string) error {
	txType, qty, err := Derive(oldQty, newQty)
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	if user == "" {
		user = defaultUser
	}
	tx := Transaction{
		ID:        uuid.NewString(),
		ProductID: productID,
		Type:      txType,
		Quantity:  qty,
		Date:      time.Now().UTC(),
		User:      user,
	}
	if err := s.repo.Append(ctx, tx); err != nil {
		return fmt.Errorf("movement: append: %w", err)
	}
	return nil
}

// List returns transactions newest first, optionally filtered.
func (s *Service) List(ctx context.Context, filter Filter) ([]Transaction, error) {
	return s.repo.List(ctx, filter)
}
