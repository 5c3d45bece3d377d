package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
)

// ErrSuperseded reports that a newer analysis request started while
// this one was in flight; its result was discarded.
var ErrSuperseded = errors.New("insights: request superseded")

// Fallback texts returned instead of an error when generation fails.
const (
	FallbackUnavailable = "Impossible d'obtenir des analyses pour le moment."
	FallbackError       = "Erreur lors de la génération des insights par l'IA."
)

// CatalogPort supplies the product snapshot the analysis is built from.
type CatalogPort interface {
	List(ctx context.Context, q catalog.Query) ([]catalog.Product, error)
}

type Service struct {
	products CatalogPort
	client   TextClient
	cache    Cache
	group    singleflight.Group
	gen      atomic.Uint64
	logger   *slog.Logger
}

func NewService(products CatalogPort, client TextClient, cache Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{products: products, client: client, cache: cache, logger: logger}
}

// Analyze generates stock analysis text for the current catalog.
// If a newer call starts before this one finishes, this one returns
// ErrSuperseded and its text is dropped. Generation failures yield a
// fallback message, never an error: the analysis is advisory.
func (s *Service) Analyze(ctx context.Context) (string, error) {
	token := s.gen.Add(1)

	items, err := s.products.List(ctx, catalog.Query{})
	if err != nil {
		return "", fmt.Errorf("insights: load catalog: %w", err)
	}
	if len(items) == 0 {
		return FallbackUnavailable, nil
	}

	key := fingerprint(items)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	text, err, _ := s.group.Do(key, func() (interface{}, error) {
		out, genErr := s.client.Generate(ctx, buildPrompt(items))
		if genErr != nil {
			s.logger.Warn("insights generation failed", "error", genErr)
			return FallbackError, nil
		}
		s.cache.Set(ctx, key, out)
		return out, nil
	})
	if err != nil {
		return "", err
	}
	if s.gen.Load() != token {
		return "", ErrSuperseded
	}
	return text.(string), nil
}

// fingerprint hashes the fields that influence the analysis so cache
// entries invalidate whenever stock moves.
func fingerprint(items []catalog.Product) string {
	h := sha256.New()
	for _, p := range items {
		fmt.Fprintf(h, "%s|%s|%d|%d|%.2f\n", p.ID, p.Name, p.Quantity, p.MinThreshold, p.Price)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func buildPrompt(items []catalog.Product) string {
	var b strings.Builder
	b.WriteString("Analyse l'état du stock suivant et fournis des recommandations concises ")
	b.WriteString("(ruptures imminentes, surstock, priorités de réapprovisionnement) :\n\n")
	for _, p := range items {
		fmt.Fprintf(&b, "- %s (%s, catégorie %s) : %d en stock, seuil minimum %d, prix unitaire %.2f\n",
			p.Name, p.SKU, p.Category, p.Quantity, p.MinThreshold, p.Price)
	}
	return b.String()
}
