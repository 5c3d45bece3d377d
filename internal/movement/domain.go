// Package movement maintains the append-only stock transaction log.
package movement

import (
	"errors"
	"time"
)

// TransactionType enumerates stock movement directions.
type TransactionType string

const (
	TypeIn  TransactionType = "IN"
	TypeOut TransactionType = "OUT"
)

// Transaction records a single stock quantity change. Entries are
// append-only and never edited or deleted.
type Transaction struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Date      time.Time       `json:"date"`
	User      string          `json:"user"`
}

// Filter narrows transaction listings.
type Filter struct {
	ProductID string
	Type      TransactionType
	Limit     int
}

var (
	ErrNoChange = errors.New("movement: quantity unchanged")
)

// Derive computes the movement implied by a quantity change. The
// direction comes from the sign of the delta alone; the caller's reason
// for the change is unknown here. A zero delta yields ErrNoChange.
func Derive(oldQty, newQty int) (TransactionType, int, error) {
	switch {
	case newQty > oldQty:
		return TypeIn, newQty - oldQty, nil
	case newQty < oldQty:
		return TypeOut, oldQty - newQty, nil
	default:
		return "", 0, ErrNoChange
	}
}
