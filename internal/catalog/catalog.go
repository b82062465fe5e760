// Package catalog serves the read-only product assortment the cart adds from.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog holds the products loaded from a JSON file.
type Catalog struct {
	path     string
	logger   *zap.Logger
	validate *validator.Validate
	sfg      singleflight.Group

	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]int
	bySlug   map[string]int
	fallback bool
}

// New returns an empty catalog. Call Load before serving from it.
func New(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		path:     path,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load (re)reads the products file. Concurrent calls share one read. A
// missing or unreadable file installs the built-in assortment.
func (c *Catalog) Load(ctx context.Context) []domain.Product {
	c.sfg.Do("load", func() (interface{}, error) {
		products, err := c.read(ctx)
		fallback := false
		if err != nil {
			c.logger.Warn("using fallback catalog", zap.String("path", c.path), zap.Error(err))
			products = Fallback()
			fallback = true
		}
		c.install(products, fallback)
		c.logger.Info("catalog loaded", zap.Int("products", len(c.Products())), zap.Bool("fallback", fallback))
		return nil, nil
	})
	return c.Products()
}

func (c *Catalog) read(ctx context.Context) ([]domain.Product, error) {
	if c.path == "" {
		return nil, errors.New("no catalog path configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for i, raw := range records {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			c.logger.Warn("skipping unreadable product", zap.Int("index", i), zap.Error(err))
			continue
		}
		p := r.product()
		if err := c.check(p); err != nil {
			c.logger.Warn("skipping invalid product", zap.Int("index", i), zap.String("id", p.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, errors.New("catalog has no valid products")
	}
	return products, nil
}

func (c *Catalog) check(p domain.Product) error {
	if err := c.validate.Struct(p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("negative price %s", p.Price)
	}
	return nil
}

// uniqueSlug derives a slug from name and id, numbering it until it is free.
func uniqueSlug(taken map[string]int, p domain.Product) string {
	base := slug.Make(p.Name + " " + p.ID)
	if base == "" {
		base = p.ID
	}
	candidate := base
	for n := 2; ; n++ {
		if _, used := taken[candidate]; !used {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (c *Catalog) install(products []domain.Product, fallback bool) {
	byID := make(map[string]int, len(products))
	bySlug := make(map[string]int, len(products))
	kept := make([]domain.Product, 0, len(products))

	for _, p := range products {
		if _, dup := byID[p.ID]; dup {
			c.logger.Warn("skipping duplicate product id", zap.String("id", p.ID))
			continue
		}
		if p.Slug == "" {
			p.Slug = slug.Make(p.Name)
		}
		if _, taken := bySlug[p.Slug]; taken || p.Slug == "" {
			p.Slug = uniqueSlug(bySlug, p)
		}
		byID[p.ID] = len(kept)
		bySlug[p.Slug] = len(kept)
		kept = append(kept, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = kept
	c.byID = byID
	c.bySlug = bySlug
	c.fallback = fallback
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProducts(c.products)
}

// UsingFallback reports whether the built-in assortment is being served.
func (c *Catalog) UsingFallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallback
}

func (c *Catalog) Get(id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// BySlug resolves a product by its URL slug, falling back to the id.
func (c *Catalog) BySlug(s string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.bySlug[s]
	if !ok {
		i, ok = c.byID[s]
	}
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, s)
	}
	return c.products[i], nil
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
