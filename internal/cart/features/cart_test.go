package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	kv            *store.MemoryStore
	model         *cart.Model
	notifications int
}

func (c *cartTestContext) reset() {
	c.kv = store.NewMemoryStore()
	c.hydrate()
}

func (c *cartTestContext) hydrate() {
	c.model = cart.New(context.Background(), store.NewRepository(c.kv, "test", nil))
	c.notifications = 0
	c.model.Subscribe(cart.SubscriberFunc(func(cart.Event) { c.notifications++ }))
}

func (c *cartTestContext) anEmptyCart() error {
	if c.model.Count() != 0 {
		return errors.New("expected a fresh empty cart")
	}
	return nil
}

func (c *cartTestContext) iAddOfProductPriced(qty int, id, price string) error {
	p := domain.Product{ID: id, Name: id, Price: decimal.RequireFromString(price)}
	return c.model.AddItem(context.Background(), p, qty)
}

func (c *cartTestContext) theCartHoldsOfProductPriced(qty int, id, price string) error {
	if err := c.iAddOfProductPriced(qty, id, price); err != nil {
		return err
	}
	c.notifications = 0
	return nil
}

func (c *cartTestContext) iDecreaseProduct(id string) error {
	return c.model.DecreaseQuantity(context.Background(), id)
}

func (c *cartTestContext) iRemoveProduct(id string) error {
	return c.model.RemoveItem(context.Background(), id)
}

func (c *cartTestContext) iTypeQuantityForProduct(raw, id string) error {
	return c.model.SetQuantity(context.Background(), id, cart.ParseQuantity(raw))
}

func (c *cartTestContext) thePageIsReloaded() error {
	c.hydrate()
	return nil
}

func (c *cartTestContext) theCartHasLineItems(n int) error {
	if got := len(c.model.Items()); got != n {
		return fmt.Errorf("expected %d line items, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartCountIs(n int) error {
	if got := c.model.Count(); got != n {
		return fmt.Errorf("expected count %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theQuantityOfProductIs(id string, n int) error {
	for _, item := range c.model.Items() {
		if item.ID == id {
			if item.Quantity != n {
				return fmt.Errorf("expected quantity %d for %s, got %d", n, id, item.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("product %s not in cart", id)
}

func (c *cartTestContext) changeNotificationsWereSent(n int) error {
	if c.notifications != n {
		return fmt.Errorf("expected %d notifications, got %d", n, c.notifications)
	}
	return nil
}

func amountIs(label string, got decimal.Decimal, want string) error {
	if !got.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected %s %s, got %s", label, want, got.StringFixed(2))
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want string) error {
	return amountIs("subtotal", c.model.Totals().Subtotal, want)
}

func (c *cartTestContext) theTaxIs(want string) error {
	return amountIs("tax", c.model.Totals().Tax, want)
}

func (c *cartTestContext) theShippingIs(want string) error {
	return amountIs("shipping", c.model.Totals().Shipping, want)
}

func (c *cartTestContext) theGrandTotalIs(want string) error {
	return amountIs("grand total", c.model.Totals().GrandTotal, want)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the cart holds (\d+) of product "([^"]*)" priced ([\d.]+)$`, tc.theCartHoldsOfProductPriced)

	// When steps
	ctx.Step(`^I add (\d+) of product "([^"]*)" priced ([\d.]+)$`, tc.iAddOfProductPriced)
	ctx.Step(`^I decrease product "([^"]*)"$`, tc.iDecreaseProduct)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I type quantity "([^"]*)" for product "([^"]*)"$`, tc.iTypeQuantityForProduct)
	ctx.Step(`^the page is reloaded$`, tc.thePageIsReloaded)

	// Then steps
	ctx.Step(`^the cart has (\d+) line items?$`, tc.theCartHasLineItems)
	ctx.Step(`^the cart count is (\d+)$`, tc.theCartCountIs)
	ctx.Step(`^the quantity of product "([^"]*)" is (\d+)$`, tc.theQuantityOfProductIs)
	ctx.Step(`^(\d+) change notifications were sent$`, tc.changeNotificationsWereSent)
	ctx.Step(`^the subtotal is ([\d.]+)$`, tc.theSubtotalIs)
	ctx.Step(`^the tax is ([\d.]+)$`, tc.theTaxIs)
	ctx.Step(`^the shipping is ([\d.]+)$`, tc.theShippingIs)
	ctx.Step(`^the grand total is ([\d.]+)$`, tc.theGrandTotalIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
