package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const productsJSON = `[
  {"id": 1, "name": "Fresh Organic Apples", "price": 15.99, "category": "Fruits",
   "rating": 4.8, "description": "Crisp apples from local farms", "date": "2026-01-10T00:00:00Z"},
  {"id": "2", "name": "Extra Virgin Olive Oil", "price": 32.99, "oldPrice": 39.99, "category": "Oils",
   "rating": 4.9, "stockStatus": "low", "isNew": true, "date": "2026-03-01T00:00:00Z"},
  {"id": 3, "name": "Wild Honey", "price": 8.50, "category": "Pantry", "rating": 4.2,
   "description": "Raw honey, great with apples", "date": "2026-02-01T00:00:00Z"},
  {"id": 4, "price": 1.00},
  {"id": 5, "name": "Broken Rating", "price": 1.00, "rating": 7},
  {"id": 6, "name": "Bad Stock", "price": 1.00, "stockStatus": "plenty"},
  {"id": 7, "name": "Negative", "price": -1.00},
  {"id": 1, "name": "Duplicate Apples", "price": 0.99},
  {"id": {"nested": true}, "name": "Unreadable", "price": 1.00}
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SkipsInvalidRecords(t *testing.T) {
	c := New(writeCatalog(t, productsJSON), nil)

	products := c.Load(context.Background())
	require.Len(t, products, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, "Fresh Organic Apples", products[0].Name)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("32.99")))
	assert.Equal(t, domain.StockLow, products[1].StockStatus)
	assert.False(t, c.UsingFallback())
}

func TestLoad_LogsOnceWithKeptCount(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(writeCatalog(t, `[
		{"id": "a", "name": "Apples", "price": 1},
		{"id": "a", "name": "Apples again", "price": 2},
		{"id": "b", "name": "Pears", "price": 3}
	]`), zap.New(core))
	c.Load(context.Background())

	loaded := logs.FilterMessage("catalog loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(2), loaded[0].ContextMap()["products"])
}

func TestLoad_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json")},
		{"malformed file", writeCatalog(t, `{"not": "a list"`)},
		{"no valid records", writeCatalog(t, `[{"id": 1}]`)},
		{"no path", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.path, nil)
			products := c.Load(context.Background())
			require.Len(t, products, 2)
			assert.Equal(t, "Fresh Organic Apples", products[0].Name)
			assert.True(t, c.UsingFallback())
		})
	}
}

func TestLoad_Concurrent(t *testing.T) {
	c := New(writeCatalog(t, productsJSON), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, c.Load(context.Background()), 3)
		}()
	}
	wg.Wait()
}

func TestLookup(t *testing.T) {
	c := New(writeCatalog(t, productsJSON), nil)
	c.Load(context.Background())

	p, err := c.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "extra-virgin-olive-oil", p.Slug)
	assert.Equal(t, int64(18), p.DiscountPercent())

	p, err = c.BySlug("wild-honey")
	require.NoError(t, err)
	assert.Equal(t, "3", p.ID)

	p, err = c.BySlug("1")
	require.NoError(t, err)
	assert.Equal(t, "fresh-organic-apples", p.Slug)

	_, err = c.Get("99")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = c.BySlug("no-such-thing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSlugCollision(t *testing.T) {
	c := New(writeCatalog(t, `[
		{"id": "a", "name": "Olive Oil", "price": 1},
		{"id": "b", "name": "Olive Oil", "price": 2}
	]`), nil)
	products := c.Load(context.Background())

	require.Len(t, products, 2)
	assert.Equal(t, "olive-oil", products[0].Slug)
	assert.Equal(t, "olive-oil-b", products[1].Slug)
}

func TestSlugCollision_FallbackAlsoTaken(t *testing.T) {
	c := New(writeCatalog(t, `[
		{"id": "a", "name": "Olive Oil", "price": 1},
		{"id": "x", "name": "Olive Oil B", "price": 2},
		{"id": "b", "name": "Olive Oil", "price": 3}
	]`), nil)
	products := c.Load(context.Background())

	require.Len(t, products, 3)
	assert.Equal(t, []string{"olive-oil", "olive-oil-b", "olive-oil-b-2"},
		[]string{products[0].Slug, products[1].Slug, products[2].Slug})

	for _, want := range products {
		got, err := c.BySlug(want.Slug)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID, "slug %s", want.Slug)
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFind(t *testing.T) {
	c := New(writeCatalog(t, productsJSON), nil)
	c.Load(context.Background())

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"everything", Query{}, []string{"1", "2", "3"}},
		{"all category", Query{Category: "all"}, []string{"1", "2", "3"}},
		{"category substring", Query{Category: "fru"}, []string{"1"}},
		{"category case", Query{Category: "OILS"}, []string{"2"}},
		{"short term ignored", Query{Search: "ap"}, []string{"1", "2", "3"}},
		{"search by name", Query{Search: "  APPLES "}, []string{"1", "3"}},
		{"search by category", Query{Search: "pantry"}, []string{"3"}},
		{"search and category", Query{Search: "apples", Category: "fruits"}, []string{"1"}},
		{"no match", Query{Search: "cheese"}, []string{}},
		{"price low", Query{Sort: SortPriceLow}, []string{"3", "1", "2"}},
		{"price high", Query{Sort: SortPriceHigh}, []string{"2", "1", "3"}},
		{"name", Query{Sort: SortName}, []string{"2", "1", "3"}},
		{"newest", Query{Sort: SortNewest}, []string{"2", "3", "1"}},
		{"rating", Query{Sort: SortRating}, []string{"2", "1", "3"}},
		{"unknown sort keeps order", Query{Sort: "popularity"}, []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Find(tt.query)))
		})
	}

	assert.Equal(t, []string{"Fruits", "Oils", "Pantry"}, c.Categories())
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := writeCatalog(t, productsJSON)
	c := New(path, nil)
	c.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 9, "name": "Sea Salt", "price": 3.25}]`), 0o644))

	require.Eventually(t, func() bool {
		_, err := c.Get("9")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	assert.Len(t, c.Products(), 1)

	cancel()
	require.NoError(t, <-done)
}
