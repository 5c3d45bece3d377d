// Package store owns the whole application state and its persistence
// boundary: load the snapshot at startup, save it after every
// mutating command.
package store

import (
	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/clients"
	"github.com/stockmaster-pro/stockmaster/internal/delivery"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/movement"
	"github.com/stockmaster-pro/stockmaster/internal/settings"
)

// SnapshotVersion tags persisted and exported state documents.
const SnapshotVersion = "2.0"

// State is the complete application state. Collections are correlated
// by id references only; nothing cascades.
type State struct {
	Products     []catalog.Product      `json:"products"`
	Clients      []clients.Client       `json:"clients"`
	Orders       []ledger.Order         `json:"orders"`
	Deliveries   []delivery.Delivery    `json:"deliveries"`
	Transactions []movement.Transaction `json:"transactions"`
	Config       settings.StoreConfig   `json:"storeConfig"`
}

// DefaultState returns the factory state: empty collections and the
// default store configuration.
func DefaultState() State {
	return State{
		Products:     []catalog.Product{},
		Clients:      []clients.Client{},
		Orders:       []ledger.Order{},
		Deliveries:   []delivery.Delivery{},
		Transactions: []movement.Transaction{},
		Config:       settings.DefaultConfig(),
	}
}

// Clone deep-copies the state.
func (st State) Clone() State {
	out := st
	out.Products = append([]catalog.Product(nil), st.Products...)
	out.Clients = append([]clients.Client(nil), st.Clients...)
	out.Orders = make([]ledger.Order, len(st.Orders))
	for i := range st.Orders {
		out.Orders[i] = st.Orders[i].Clone()
	}
	out.Deliveries = append([]delivery.Delivery(nil), st.Deliveries...)
	out.Transactions = append([]movement.Transaction(nil), st.Transactions...)
	return out
}

// normalize repairs a freshly loaded or restored state: nil slices
// become empty, a blank config falls back to defaults, and every
// order's derived status is recomputed from its amounts.
func (st *State) normalize() {
	if st.Products == nil {
		st.Products = []catalog.Product{}
	}
	if st.Clients == nil {
		st.Clients = []clients.Client{}
	}
	if st.Orders == nil {
		st.Orders = []ledger.Order{}
	}
	if st.Deliveries == nil {
		st.Deliveries = []delivery.Delivery{}
	}
	if st.Transactions == nil {
		st.Transactions = []movement.Transaction{}
	}
	if st.Config == (settings.StoreConfig{}) {
		st.Config = settings.DefaultConfig()
	}
	if st.Config.PINCode == "" {
		st.Config.PINCode = settings.DefaultPIN
	}
	for i := range st.Orders {
		o := &st.Orders[i]
		if o.Items == nil {
			o.Items = []ledger.OrderItem{}
		}
		if o.Payments == nil {
			o.Payments = []ledger.PaymentRecord{}
		}
		if o.Schedules == nil {
			o.Schedules = []ledger.PaymentSchedule{}
		}
		o.RecomputeStatus()
	}
}
