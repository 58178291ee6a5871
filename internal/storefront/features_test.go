package storefront_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/render"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/internal/toast"
)

type storefrontTestContext struct {
	session *storefront.Session
	view    storefront.View
	lastErr error
}

func (c *storefrontTestContext) reset() error {
	if c.session != nil {
		c.session.Close()
	}
	renderer, err := render.New()
	if err != nil {
		return err
	}
	sess, err := storefront.NewSession(storefront.SessionParams{
		Catalog:  catalog.Default(),
		Renderer: renderer,
		Toasts:   toast.NewQueue(toast.Options{Scheduler: toast.NewManualScheduler()}),
	})
	if err != nil {
		return err
	}
	c.session = sess
	c.view = sess.View()
	c.lastErr = nil
	return nil
}

func (c *storefrontTestContext) aFreshStorefrontSession() error {
	return c.reset()
}

func (c *storefrontTestContext) iAddPricedTimes(name, price string, times int) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	for i := 0; i < times; i++ {
		if c.view, err = c.session.AddItem(name, p, "images/item.jpg"); err != nil {
			return err
		}
	}
	return nil
}

func (c *storefrontTestContext) iAddProducts(a, b, d, e int) error {
	for _, id := range []int{a, b, d, e} {
		view, err := c.session.AddProduct(id)
		if err != nil {
			return err
		}
		c.view = view
	}
	return nil
}

func (c *storefrontTestContext) iAdjustBy(name string, delta int) error {
	view, err := c.session.AdjustQuantity(name, delta)
	if err != nil {
		return err
	}
	c.view = view
	return nil
}

func (c *storefrontTestContext) iCheckOut() error {
	view, err := c.session.Checkout()
	if err != nil {
		return err
	}
	c.view = view
	return nil
}

func (c *storefrontTestContext) iOpenTheDrawer() error {
	open := true
	c.view = c.session.ToggleDrawer(&open)
	return nil
}

func (c *storefrontTestContext) iPressEscape() error {
	c.view = c.session.Escape()
	return nil
}

func (c *storefrontTestContext) theCartHasLines(n int) error {
	if got := len(c.session.Lines()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) hasQuantity(name string, qty int) error {
	for _, line := range c.session.Lines() {
		if line.Name == name {
			if line.Quantity != qty {
				return fmt.Errorf("expected %s quantity %d, got %d", name, qty, line.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no line named %q", name)
}

func (c *storefrontTestContext) theCartTotalIs(total string) error {
	if c.view.Cart.Total != total {
		return fmt.Errorf("expected total %s, got %s", total, c.view.Cart.Total)
	}
	return nil
}

func (c *storefrontTestContext) theCartIsEmpty() error {
	if !c.view.Cart.Empty || c.session.TotalItemCount() != 0 {
		return fmt.Errorf("expected empty cart, got %d items", c.session.TotalItemCount())
	}
	return nil
}

func (c *storefrontTestContext) theLatestNotificationIs(msg string) error {
	toasts := c.view.Toasts
	if len(toasts) == 0 {
		return fmt.Errorf("no notifications visible")
	}
	if got := toasts[len(toasts)-1].Message; got != msg {
		return fmt.Errorf("expected latest notification %q, got %q", msg, got)
	}
	return nil
}

func (c *storefrontTestContext) theLatestNotificationNamesProduct(id int) error {
	item, ok := c.session.Catalog().ByID(id)
	if !ok {
		return fmt.Errorf("product %d not in catalog", id)
	}
	return c.theLatestNotificationIs(item.Name + " added to your cart.")
}

func (c *storefrontTestContext) theNotificationIsNotShown(msg string) error {
	for _, t := range c.view.Toasts {
		if t.Message == msg {
			return fmt.Errorf("notification %q still visible", msg)
		}
	}
	return nil
}

func (c *storefrontTestContext) thereAreVisibleNotifications(n int) error {
	if got := len(c.view.Toasts); got != n {
		return fmt.Errorf("expected %d notifications, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theDrawerIsOpen() error {
	if !c.view.Drawer.Open {
		return fmt.Errorf("expected drawer open")
	}
	return nil
}

func (c *storefrontTestContext) theDrawerIsClosed() error {
	if c.view.Drawer.Open || c.view.Drawer.DrawerAriaHidden != "true" {
		return fmt.Errorf("expected drawer closed, got %+v", c.view.Drawer)
	}
	return nil
}

func (c *storefrontTestContext) theCartMarkupHasNoRawQuote() error {
	html := string(c.view.Cart.HTML)
	if strings.Contains(html, `Jo's "Best"`) {
		return fmt.Errorf("raw name leaked into markup")
	}
	if !strings.Contains(html, `data-name="Jo&#39;s &#34;Best&#34; Bag"`) {
		return fmt.Errorf("escaped data-name not found in markup")
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.session != nil {
			tc.session.Close()
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a fresh storefront session$`, tc.aFreshStorefrontSession)

	// When steps
	ctx.Step(`^I add "(.*)" priced (\d+\.\d+) (\d+) times$`, tc.iAddPricedTimes)
	ctx.Step(`^I add products (\d+), (\d+), (\d+) and (\d+)$`, tc.iAddProducts)
	ctx.Step(`^I adjust "(.*)" by (-?\d+)$`, tc.iAdjustBy)
	ctx.Step(`^I check out$`, tc.iCheckOut)
	ctx.Step(`^I open the drawer$`, tc.iOpenTheDrawer)
	ctx.Step(`^I press escape$`, tc.iPressEscape)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^"(.*)" has quantity (\d+)$`, tc.hasQuantity)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the latest notification is "(.*)"$`, tc.theLatestNotificationIs)
	ctx.Step(`^the latest notification names product (\d+)$`, tc.theLatestNotificationNamesProduct)
	ctx.Step(`^the notification "(.*)" is not shown$`, tc.theNotificationIsNotShown)
	ctx.Step(`^there are (\d+) visible notifications$`, tc.thereAreVisibleNotifications)
	ctx.Step(`^the drawer is open$`, tc.theDrawerIsOpen)
	ctx.Step(`^the drawer is closed$`, tc.theDrawerIsClosed)
	ctx.Step(`^the cart markup does not contain a raw quote from the name$`, tc.theCartMarkupHasNoRawQuote)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/storefront.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
