package insights

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
)

type stubCatalog struct {
	products []catalog.Product
	err      error
}

func (s *stubCatalog) List(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	return s.products, s.err
}

type stubClient struct {
	text    string
	err     error
	block   chan struct{}
	entered chan struct{}
	calls   int
	mu      sync.Mutex
}

func (c *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.entered != nil {
		close(c.entered)
		c.entered = nil
	}
	if c.block != nil {
		<-c.block
	}
	return c.text, c.err
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]string{}} }

func (c *mapCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func someProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "prod-1", Name: "Clavier", SKU: "KB-01", Quantity: 3, MinThreshold: 5, Price: 20},
		{ID: "prod-2", Name: "Écran", SKU: "SC-01", Quantity: 12, MinThreshold: 2, Price: 150},
	}
}

func TestAnalyzeReturnsGeneratedText(t *testing.T) {
	client := &stubClient{text: "Réapprovisionner le clavier."}
	svc := NewService(&stubCatalog{products: someProducts()}, client, newMapCache(), testLogger())

	text, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Réapprovisionner le clavier.", text)
}

func TestAnalyzeFallsBackOnGenerationFailure(t *testing.T) {
	client := &stubClient{err: errors.New("upstream down")}
	svc := NewService(&stubCatalog{products: someProducts()}, client, newMapCache(), testLogger())

	text, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	require.Equal(t, FallbackError, text)
}

func TestAnalyzeEmptyCatalog(t *testing.T) {
	client := &stubClient{text: "unused"}
	svc := NewService(&stubCatalog{}, client, newMapCache(), testLogger())

	text, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	require.Equal(t, FallbackUnavailable, text)
	require.Equal(t, 0, client.calls)
}

func TestAnalyzeServesFromCache(t *testing.T) {
	client := &stubClient{text: "analyse"}
	cache := newMapCache()
	svc := NewService(&stubCatalog{products: someProducts()}, client, cache, testLogger())
	ctx := context.Background()

	_, err := svc.Analyze(ctx)
	require.NoError(t, err)
	_, err = svc.Analyze(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, client.calls)
}

func TestAnalyzeDiscardsSupersededResult(t *testing.T) {
	client := &stubClient{
		text:    "analyse",
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	svc := NewService(&stubCatalog{products: someProducts()}, client, newMapCache(), testLogger())
	ctx := context.Background()

	entered := client.entered
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(ctx)
		firstErr <- err
	}()

	<-entered // first request is now generating

	secondDone := make(chan struct{})
	var secondText string
	var secondErr error
	go func() {
		secondText, secondErr = svc.Analyze(ctx)
		close(secondDone)
	}()

	// Give the second call time to join the in-flight generation, then
	// let the generation finish.
	time.Sleep(20 * time.Millisecond)
	close(client.block)

	require.ErrorIs(t, <-firstErr, ErrSuperseded)

	<-secondDone
	require.NoError(t, secondErr)
	require.Equal(t, "analyse", secondText)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := &RedisCache{
		Client: redis.NewClient(&redis.Options{Addr: srv.Addr()}),
		TTL:    time.Minute,
	}
	ctx := context.Background()

	_, ok := cache.Get(ctx, "abc")
	require.False(t, ok)

	cache.Set(ctx, "abc", "analyse en cache")
	got, ok := cache.Get(ctx, "abc")
	require.True(t, ok)
	require.Equal(t, "analyse en cache", got)

	srv.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, "abc")
	require.False(t, ok)
}

func TestFingerprintChangesWithStock(t *testing.T) {
	a := someProducts()
	b := someProducts()
	require.Equal(t, fingerprint(a), fingerprint(b))

	b[0].Quantity++
	require.NotEqual(t, fingerprint(a), fingerprint(b))
}
