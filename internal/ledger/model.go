// Package ledger implements the order and payment ledger: order
// creation, payment allocation across order lines, and derived order
// status.
package ledger

import (
	"time"
)

// OrderStatus enumerates order statuses. The payment engine only ever
// produces Unpaid, PartiallyPaid and Paid; the remaining values exist
// for documents imported from older snapshots.
type OrderStatus string

const (
	StatusDraft         OrderStatus = "draft"
	StatusConfirmed     OrderStatus = "confirmed"
	StatusShipped       OrderStatus = "shipped"
	StatusPaid          OrderStatus = "paid"
	StatusPartiallyPaid OrderStatus = "partially_paid"
	StatusUnpaid        OrderStatus = "unpaid"
)

// PaymentMethod enumerates supported payment channels.
type PaymentMethod string

const (
	MethodOrangeMoney  PaymentMethod = "Orange Money"
	MethodMTNMoney     PaymentMethod = "MTN Money"
	MethodMoovMoney    PaymentMethod = "Moov Money"
	MethodWaveMoney    PaymentMethod = "Wave Money"
	MethodBankTransfer PaymentMethod = "Virement Bancaire"
	MethodBankWire     PaymentMethod = "Transfert Bancaire"
	MethodCash         PaymentMethod = "Espèces"
)

// Known reports whether the method is a supported channel.
func (m PaymentMethod) Known() bool {
	switch m {
	case MethodOrangeMoney, MethodMTNMoney, MethodMoovMoney,
		MethodWaveMoney, MethodBankTransfer, MethodBankWire, MethodCash:
		return true
	}
	return false
}

// OrderItem is one order line. UnitPrice snapshots the catalog price at
// order time and never changes afterwards. Line identity is the
// product id; an order carries at most one line per product.
type OrderItem struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	PaidAmount float64 `json:"paidAmount"`
}

// Total returns quantity × unit price.
func (i OrderItem) Total() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Due returns the unpaid balance on the line.
func (i OrderItem) Due() float64 {
	return i.Total() - i.PaidAmount
}

// PaymentRecord is an append-only ledger entry; never edited or
// deleted once created. AffectedProductIDs lists the manually targeted
// lines and stays empty for auto-distributed payments.
type PaymentRecord struct {
	ID                 string        `json:"id"`
	Amount             float64       `json:"amount"`
	Date               time.Time     `json:"date"`
	Method             PaymentMethod `json:"method"`
	Reference          string        `json:"reference,omitempty"`
	Note               string        `json:"note,omitempty"`
	AffectedProductIDs []string      `json:"affectedProductIds"`
}

// ScheduleStatus enumerates installment states.
type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	SchedulePaid    ScheduleStatus = "paid"
	ScheduleOverdue ScheduleStatus = "overdue"
)

// PaymentSchedule is reserved for future installment plans. It is
// serialized with the order but never populated by current logic.
type PaymentSchedule struct {
	ID      string         `json:"id"`
	Amount  float64        `json:"amount"`
	DueDate time.Time      `json:"dueDate"`
	Status  ScheduleStatus `json:"status"`
}

// Order references a client and a set of catalog lines. TotalAmount is
// fixed at creation; PaidAmount accumulates applied payments and must
// always equal the sum of the per-line paid amounts.
type Order struct {
	ID          string            `json:"id"`
	ClientID    string            `json:"clientId"`
	Items       []OrderItem       `json:"items"`
	Status      OrderStatus       `json:"status"`
	Date        time.Time         `json:"date"`
	TotalAmount float64           `json:"totalAmount"`
	PaidAmount  float64           `json:"paidAmount"`
	Payments    []PaymentRecord   `json:"payments"`
	Schedules   []PaymentSchedule `json:"schedules"`
}

// RemainingDue returns the order-level unpaid balance.
func (o *Order) RemainingDue() float64 {
	return o.TotalAmount - o.PaidAmount
}

// Clone deep-copies the order so callers can mutate freely.
func (o *Order) Clone() Order {
	out := *o
	out.Items = append([]OrderItem(nil), o.Items...)
	out.Payments = make([]PaymentRecord, len(o.Payments))
	for i, p := range o.Payments {
		out.Payments[i] = p
		out.Payments[i].AffectedProductIDs = append([]string(nil), p.AffectedProductIDs...)
	}
	out.Schedules = append([]PaymentSchedule(nil), o.Schedules...)
	return out
}
