// Package backup serializes the full application snapshot to a
// portable document and restores it after structural validation.
package backup

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/clients"
	"github.com/stockmaster-pro/stockmaster/internal/delivery"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/movement"
	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-pro/stockmaster/internal/settings"
	"github.com/stockmaster-pro/stockmaster/internal/store"
)

// Document is the exported snapshot. Every collection is optional on
// restore except products; absent collections default to empty.
type Document struct {
	Products     []catalog.Product      `json:"products"`
	Clients      []clients.Client       `json:"clients"`
	Orders       []ledger.Order         `json:"orders"`
	Deliveries   []delivery.Delivery    `json:"deliveries"`
	Transactions []movement.Transaction `json:"transactions"`
	StoreConfig  settings.StoreConfig   `json:"storeConfig"`
	BackupDate   time.Time              `json:"backupDate"`
	Version      string                 `json:"version"`
}

// ValidationError aggregates field-level problems found while parsing
// a candidate document.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("invalid backup document (%s): %s",
		strings.Join(parts, "; "), httpx.ErrValidation)
}

func (e *ValidationError) Unwrap() error { return httpx.ErrValidation }

// ParseDocument validates the shape of a candidate document before
// anything touches the live state. A document without a products array
// is rejected; all other keys are optional.
func ParseDocument(data []byte) (*Document, error) {
	fields := map[string]string{}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		fields["document"] = "not a JSON object"
		return nil, &ValidationError{Fields: fields}
	}

	raw, ok := probe["products"]
	if !ok || string(raw) == "null" {
		fields["products"] = "missing"
	} else {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			fields["products"] = "not an array"
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		fields["document"] = err.Error()
		return nil, &ValidationError{Fields: fields}
	}
	return &doc, nil
}

// toState converts the document to an application state, defaulting
// whatever the document omits.
func (d *Document) toState() store.State {
	st := store.State{
		Products:     d.Products,
		Clients:      d.Clients,
		Orders:       d.Orders,
		Deliveries:   d.Deliveries,
		Transactions: d.Transactions,
		Config:       d.StoreConfig,
	}
	return st
}
