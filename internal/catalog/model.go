// Package catalog manages the product catalog and its stock levels.
package catalog

import "time"

// Product represents a catalog entry. SKU is a business key expected to
// be unique but not enforced as such.
type Product struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"minThreshold"`
	Price        float64   `json:"price"`
	Supplier     string    `json:"supplier"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// LowStock reports whether the product sits at or below its alert
// threshold while still having stock.
func (p Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.MinThreshold
}

// Stats summarises the catalog for the dashboard.
type Stats struct {
	TotalValue    float64 `json:"totalValue"`
	TotalItems    int     `json:"totalItems"`
	LowStockCount int     `json:"lowStockCount"`
	OutOfStock    int     `json:"outOfStockCount"`
}

// SortKey enumerates supported list orderings.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByQuantity SortKey = "quantity"
	SortByPrice    SortKey = "price"
)

// Query narrows and orders product listings.
type Query struct {
	Search    string
	Category  string
	SortBy    SortKey
	Ascending bool
}
