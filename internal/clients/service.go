package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// Service handles registry business logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateClient(c Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required: %w", httpx.ErrValidation)
	}
	return nil
}

// Create registers a new client.
func (s *Service) Create(ctx context.Context, c Client) (*Client, error) {
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &c, nil
}

// Update edits a client profile.
func (s *Service) Update(ctx context.Context, c Client) (*Client, error) {
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a client. Orders keep their clientId and resolve it
// to UnknownLabel at read time.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one client.
func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.repo.Get(ctx, id)
}

// List returns all clients, newest first.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

// DisplayName resolves a client id to a label, tolerating dangling
// references.
func (s *Service) DisplayName(ctx context.Context, id string) string {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return UnknownLabel
	}
	return c.Name
}
