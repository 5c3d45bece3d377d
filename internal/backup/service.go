package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stockmaster-pro/stockmaster/internal/store"
)

// Service exports and restores whole-state snapshots.
type Service struct {
	st *store.Store
}

// NewService builds Service instance.
func NewService(st *store.Store) *Service {
	return &Service{st: st}
}

// Export captures the current state as a portable document.
func (s *Service) Export(ctx context.Context) Document {
	state := s.st.Snapshot()
	return Document{
		Products:     state.Products,
		Clients:      state.Clients,
		Orders:       state.Orders,
		Deliveries:   state.Deliveries,
		Transactions: state.Transactions,
		StoreConfig:  state.Config,
		BackupDate:   time.Now().UTC(),
		Version:      store.SnapshotVersion,
	}
}

// Restore validates the candidate document and replaces every
// collection wholesale. On validation failure nothing is mutated.
func (s *Service) Restore(ctx context.Context, data []byte) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	if err := s.st.Replace(ctx, doc.toState()); err != nil {
		return fmt.Errorf("backup: replace state: %w", err)
	}
	return nil
}

// Reset wipes every collection back to factory defaults.
func (s *Service) Reset(ctx context.Context) error {
	return s.st.Reset(ctx)
}

// WriteFile exports the snapshot to a timestamped document on disk.
// Used by the scheduled backup job.
func (s *Service) WriteFile(ctx context.Context, dir string) (string, error) {
	doc := s.Export(ctx)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encode: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: mkdir: %w", err)
	}
	name := fmt.Sprintf("stockmaster_db_%s.json", doc.BackupDate.Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("backup: write %s: %w", path, err)
	}
	return path, nil
}
