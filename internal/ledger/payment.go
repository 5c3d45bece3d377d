package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// amountEpsilon absorbs float64 noise when comparing currency amounts.
const amountEpsilon = 1e-6

// PaymentInput describes one payment application. When Allocations is
// non-empty the payment is distributed manually per line; otherwise
// Amount is distributed automatically as a waterfall over the lines in
// stored order.
type PaymentInput struct {
	Amount      float64
	Allocations map[string]float64
	Method      PaymentMethod
	Reference   string
	Note        string
}

// StatusFor derives the order status purely from the paid and total
// amounts.
func StatusFor(paid, total float64) OrderStatus {
	switch {
	case paid >= total-amountEpsilon && total > 0:
		return StatusPaid
	case paid > amountEpsilon:
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}

// RecomputeStatus reassigns the derived status. Called after every
// payment mutation and when loading persisted snapshots, so the stored
// field can never drift from the amounts.
func (o *Order) RecomputeStatus() {
	o.Status = StatusFor(o.PaidAmount, o.TotalAmount)
}

// Reconcile verifies the ledger invariant: the order-level paid total
// equals the sum of its lines' paid amounts.
func (o *Order) Reconcile() error {
	var lineSum float64
	for _, it := range o.Items {
		lineSum += it.PaidAmount
	}
	if math.Abs(lineSum-o.PaidAmount) > amountEpsilon {
		return fmt.Errorf("order %s unreconciled: paid %.2f, line sum %.2f: %w",
			o.ID, o.PaidAmount, lineSum, httpx.ErrValidation)
	}
	return nil
}

// ApplyPayment records a payment against the order and distributes it
// across the lines.
//
// Auto mode fills lines strictly in stored order: each line receives
// min(remaining, line due) until the tendered amount is exhausted. The
// tendered amount is clamped to the order's remaining due, so the
// recorded amount never overshoots the total and reconciliation holds
// unconditionally.
//
// Manual mode applies the caller's per-line amounts, each clamped to
// that line's remaining due; amounts for unknown product ids are
// ignored. The recorded payment amount is the sum actually applied.
func (o *Order) ApplyPayment(in PaymentInput) (*PaymentRecord, error) {
	if !in.Method.Known() {
		return nil, fmt.Errorf("unsupported payment method %q: %w", in.Method, httpx.ErrValidation)
	}

	var applied float64
	var affected []string

	if len(in.Allocations) > 0 {
		for i := range o.Items {
			it := &o.Items[i]
			want, ok := in.Allocations[it.ProductID]
			if !ok || want <= 0 {
				continue
			}
			amount := math.Min(want, it.Due())
			if amount <= 0 {
				continue
			}
			it.PaidAmount += amount
			applied += amount
			affected = append(affected, it.ProductID)
		}
	} else {
		remaining := math.Min(in.Amount, o.RemainingDue())
		for i := range o.Items {
			if remaining <= 0 {
				break
			}
			it := &o.Items[i]
			due := it.Due()
			if due <= 0 {
				continue
			}
			amount := math.Min(remaining, due)
			it.PaidAmount += amount
			remaining -= amount
			applied += amount
		}
	}

	if applied <= 0 {
		return nil, fmt.Errorf("payment amount must be positive: %w", httpx.ErrValidation)
	}

	record := PaymentRecord{
		ID:                 uuid.NewString(),
		Amount:             applied,
		Date:               time.Now().UTC(),
		Method:             in.Method,
		Reference:          in.Reference,
		Note:               in.Note,
		AffectedProductIDs: affected,
	}
	o.Payments = append(o.Payments, record)
	o.PaidAmount += applied
	o.RecomputeStatus()

	if err := o.Reconcile(); err != nil {
		return nil, err
	}
	return &record, nil
}
