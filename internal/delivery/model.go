// Package delivery tracks shipments generated from orders.
package delivery

import "time"

// Status enumerates delivery states. There is no automatic coupling
// back to the order's status.
type Status string

const (
	StatusPreparing       Status = "preparing"
	StatusPendingShipment Status = "pending_shipment"
	StatusShipped         Status = "shipped"
	StatusDelivered       Status = "delivered"
	StatusCancelled       Status = "cancelled"
)

// Known reports whether the status is a recognised state.
func (s Status) Known() bool {
	switch s {
	case StatusPreparing, StatusPendingShipment, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Delivery is a shipment record referencing an order by id. An order
// has at most one delivery; the relationship is checked at generation
// time, not enforced structurally.
type Delivery struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"orderId"`
	Carrier          string     `json:"carrier"`
	TrackingNumber   string     `json:"trackingNumber"`
	Status           Status     `json:"status"`
	EstimatedArrival time.Time  `json:"estimatedArrival"`
	ActualArrival    *time.Time `json:"actualArrival,omitempty"`
	ShippedDate      *time.Time `json:"shippedDate,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// Late reports whether the delivery has missed its estimate.
func (d Delivery) Late(now time.Time) bool {
	return d.Status != StatusDelivered && d.EstimatedArrival.Before(now)
}
