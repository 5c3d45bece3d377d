// Package settings holds the tenant-wide store configuration.
package settings

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// StoreConfig is the singleton tenant configuration. The PIN gates the
// settings surface client-side; it is not a security boundary and must
// round-trip backup documents verbatim.
type StoreConfig struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Slogan  string `json:"slogan"`
	PINCode string `json:"pinCode"`
}

// DefaultPIN is the factory PIN code.
const DefaultPIN = "0000"

// DefaultConfig returns the factory configuration.
func DefaultConfig() StoreConfig {
	return StoreConfig{
		Name:    "STOCKMASTER PRO",
		Address: "Avenue des Affaires, Immeuble Alpha",
		Email:   "contact@stockmaster.pro",
		Phone:   "+225 01 02 03 04 05",
		Slogan:  "L'ERP Nouvelle Génération",
		PINCode: DefaultPIN,
	}
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Store is the configuration view provided by the state container.
type Store interface {
	ViewConfig(fn func(cfg StoreConfig))
	MutateConfig(ctx context.Context, fn func(cfg StoreConfig) (StoreConfig, error)) error
}

// Service handles store configuration.
type Service struct {
	st Store
}

// NewService builds Service instance.
func NewService(st Store) *Service {
	return &Service{st: st}
}

// Get returns the current configuration with the PIN redacted.
func (s *Service) Get(ctx context.Context) StoreConfig {
	var cfg StoreConfig
	s.st.ViewConfig(func(c StoreConfig) { cfg = c })
	cfg.PINCode = ""
	return cfg
}

// Update replaces the branding fields. The PIN changes only through
// UpdatePIN.
func (s *Service) Update(ctx context.Context, next StoreConfig) (StoreConfig, error) {
	var out StoreConfig
	err := s.st.MutateConfig(ctx, func(cfg StoreConfig) (StoreConfig, error) {
		next.PINCode = cfg.PINCode
		out = next
		return next, nil
	})
	out.PINCode = ""
	return out, err
}

// VerifyPIN checks the settings gate. Constant-time compare; the gate
// is trivial but there is no reason to leak timing anyway.
func (s *Service) VerifyPIN(ctx context.Context, pin string) bool {
	var current string
	s.st.ViewConfig(func(c StoreConfig) { current = c.PINCode })
	if current == "" {
		current = DefaultPIN
	}
	return subtle.ConstantTimeCompare([]byte(pin), []byte(current)) == 1
}

// UpdatePIN replaces the PIN after verifying the current one.
func (s *Service) UpdatePIN(ctx context.Context, currentPIN, nextPIN string) error {
	if !validPIN(nextPIN) {
		return fmt.Errorf("pin must be exactly 4 digits: %w", httpx.ErrValidation)
	}
	if !s.VerifyPIN(ctx, currentPIN) {
		return fmt.Errorf("current pin mismatch: %w", httpx.ErrForbidden)
	}
	return s.st.MutateConfig(ctx, func(cfg StoreConfig) (StoreConfig, error) {
		cfg.PINCode = nextPIN
		return cfg, nil
	})
}
