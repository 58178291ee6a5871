package storefront

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/render"
	"github.com/angelmondragon/storefront/internal/toast"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type fakeRecorder struct {
	mu        sync.Mutex
	actions   []string
	checkouts []string
	toasts    []string
	active    int
	sweeps    int
	evicted   int
}

func (f *fakeRecorder) ToastEvent(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, event)
}

func (f *fakeRecorder) CartAction(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeRecorder) Checkout(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkouts = append(f.checkouts, outcome)
}

func (f *fakeRecorder) SessionsActive(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = n
}

func (f *fakeRecorder) ObserveSweep(_ time.Duration, evicted int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	f.evicted += evicted
}

type harness struct {
	session  *Session
	sched    *toast.ManualScheduler
	recorder *fakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)
	sched := toast.NewManualScheduler()
	rec := &fakeRecorder{}
	sess, err := NewSession(SessionParams{
		Catalog:  catalog.Default(),
		Renderer: renderer,
		Toasts:   toast.NewQueue(toast.Options{Scheduler: sched, Recorder: rec}),
		Recorder: rec,
	})
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return &harness{session: sess, sched: sched, recorder: rec}
}

func messages(toasts []toast.Toast) []string {
	out := make([]string, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, t.Message)
	}
	return out
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewSessionStartsEmptyAndClosed(t *testing.T) {
	h := newHarness(t)
	view := h.session.View()

	assert.True(t, view.Cart.Empty)
	assert.Equal(t, 0, view.Cart.ItemCount)
	assert.Equal(t, "$0.00", view.Cart.Total)
	assert.False(t, view.Drawer.Open)
	assert.Empty(t, view.Toasts)
	assert.Equal(t, h.session.ID().String(), view.SessionID)
}

func TestAddItemMessagesDistinguishNewFromRepeat(t *testing.T) {
	h := newHarness(t)

	_, err := h.session.AddItem("Tote", price("189.99"), "tote.jpg")
	require.NoError(t, err)
	view, err := h.session.AddItem("Tote", price("189.99"), "tote.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"Tote added to your cart.", "Tote quantity updated."}, messages(view.Toasts))
	assert.Equal(t, 2, view.Cart.ItemCount)
	assert.Equal(t, "$379.98", view.Cart.Total)
	assert.Equal(t, []string{"added", "quantity_updated"}, h.recorder.actions)
}

func TestToteScenario(t *testing.T) {
	h := newHarness(t)
	s := h.session

	_, err := s.AddItem("Tote", price("189.99"), "tote.jpg")
	require.NoError(t, err)
	_, err = s.AddItem("Tote", price("189.99"), "tote.jpg")
	require.NoError(t, err)
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 2, s.Lines()[0].Quantity)
	assert.True(t, s.TotalPrice().Equal(price("379.98")))

	view, err := s.AdjustQuantity("Tote", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Lines()[0].Quantity)
	assert.Equal(t, "$189.99", view.Cart.Total)
	assert.Len(t, view.Toasts, 2, "plain adjust is silent")

	view, err = s.AdjustQuantity("Tote", -1)
	require.NoError(t, err)
	assert.Empty(t, s.Lines())
	assert.True(t, view.Cart.Empty)
	assert.Equal(t, "$0.00", view.Cart.Total)
	assert.Equal(t, "Item removed from your cart.", view.Toasts[len(view.Toasts)-1].Message)
}

func TestAdjustToZeroMatchesRemove(t *testing.T) {
	h := newHarness(t)
	s := h.session
	for i := 0; i < 3; i++ {
		_, err := s.AddItem("Duffel", price("199.99"), "duffel.jpg")
		require.NoError(t, err)
	}
	_, err := s.AddItem("Clutch", price("89.99"), "clutch.jpg")
	require.NoError(t, err)
	before := s.TotalItemCount()

	view, err := s.AdjustQuantity("Duffel", -3)
	require.NoError(t, err)

	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, before-3, s.TotalItemCount())
	assert.Equal(t, "Item removed from your cart.", view.Toasts[len(view.Toasts)-1].Message)
	assert.Equal(t, "removed", h.recorder.actions[len(h.recorder.actions)-1])
}

func TestAdjustUnknownNameIsSilentNoop(t *testing.T) {
	h := newHarness(t)
	view, err := h.session.AdjustQuantity("Ghost", 1)
	require.NoError(t, err)
	assert.True(t, view.Cart.Empty)
	assert.Empty(t, view.Toasts)
	assert.Empty(t, h.recorder.actions)
}

func TestRemoveItemAlwaysConfirms(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.AddItem("Tote", price("189.99"), "tote.jpg")
	require.NoError(t, err)

	view, err := h.session.RemoveItem("Tote")
	require.NoError(t, err)
	assert.True(t, view.Cart.Empty)

	view, err = h.session.RemoveItem("Ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Tote added to your cart.",
		"Item removed from your cart.",
		"Item removed from your cart.",
	}, messages(view.Toasts))
}

func TestAddProductResolvesCatalog(t *testing.T) {
	h := newHarness(t)
	item, ok := catalog.Default().ByID(3)
	require.True(t, ok)

	view, err := h.session.AddProduct(3)
	require.NoError(t, err)
	require.Len(t, h.session.Lines(), 1)
	assert.Equal(t, item.Name, h.session.Lines()[0].Name)
	assert.True(t, item.Price.Equal(h.session.Lines()[0].Price))
	assert.Equal(t, item.Name+" added to your cart.", view.Toasts[0].Message)

	_, err = h.session.AddProduct(999)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Len(t, h.session.Lines(), 1)
}

func TestDrawerToggleAndEscape(t *testing.T) {
	h := newHarness(t)
	s := h.session

	view := s.ToggleDrawer(nil)
	assert.True(t, view.Drawer.Open)
	assert.Equal(t, "false", view.Drawer.DrawerAriaHidden)
	assert.True(t, view.Drawer.BodyScrollLocked)

	view = s.Escape()
	assert.False(t, view.Drawer.Open)
	view = s.Escape()
	assert.False(t, view.Drawer.Open)

	open := true
	s.ToggleDrawer(&open)
	view = s.ToggleDrawer(&open)
	assert.True(t, view.Drawer.Open)
}

func TestCheckoutEmptyCartLeavesDrawerAlone(t *testing.T) {
	h := newHarness(t)
	s := h.session

	view, err := s.Checkout()
	require.NoError(t, err)
	assert.False(t, view.Drawer.Open)
	assert.True(t, view.Cart.Empty)
	assert.Equal(t, []string{"Your cart is currently empty."}, messages(view.Toasts))

	s.ToggleDrawer(nil)
	view, err = s.Checkout()
	require.NoError(t, err)
	assert.True(t, view.Drawer.Open)
	assert.Equal(t, []string{"empty", "empty"}, h.recorder.checkouts)
}

func TestCheckoutClearsCartAndClosesDrawer(t *testing.T) {
	h := newHarness(t)
	s := h.session
	_, err := s.AddProduct(1)
	require.NoError(t, err)
	_, err = s.AddProduct(2)
	require.NoError(t, err)
	s.ToggleDrawer(nil)

	view, err := s.Checkout()
	require.NoError(t, err)

	assert.True(t, view.Cart.Empty)
	assert.Equal(t, "$0.00", view.Cart.Total)
	assert.False(t, view.Drawer.Open)
	assert.Equal(t, "true", view.Drawer.BackdropAriaHidden)
	assert.Equal(t, "Thank you! Your order is on its way.", view.Toasts[len(view.Toasts)-1].Message)
	assert.Equal(t, []string{"placed"}, h.recorder.checkouts)
	assert.Equal(t, "cleared", h.recorder.actions[len(h.recorder.actions)-1])
}

func TestFourNotificationsKeepThreeVisible(t *testing.T) {
	h := newHarness(t)
	for _, id := range []int{1, 2, 3, 4} {
		_, err := h.session.AddProduct(id)
		require.NoError(t, err)
	}
	view := h.session.View()
	require.Len(t, view.Toasts, 3)

	items := catalog.Default().Items()
	assert.Equal(t, items[1].Name+" added to your cart.", view.Toasts[0].Message)
	assert.Equal(t, items[3].Name+" added to your cart.", view.Toasts[2].Message)
	assert.Contains(t, h.recorder.toasts, "evicted")
}

func TestToastsExpireIndependently(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.AddProduct(1)
	require.NoError(t, err)
	h.sched.Advance(time.Second)
	_, err = h.session.AddProduct(2)
	require.NoError(t, err)

	h.sched.Advance(toast.DefaultDisplay - time.Second)
	view := h.session.View()
	require.Len(t, view.Toasts, 2)
	assert.Equal(t, toast.PhaseLeaving, view.Toasts[0].Phase)
	assert.Equal(t, toast.PhaseVisible, view.Toasts[1].Phase)

	h.sched.Advance(toast.DefaultFade)
	assert.Len(t, h.session.View().Toasts, 1)

	h.sched.Advance(time.Second)
	assert.Empty(t, h.session.View().Toasts)
}

func TestPageCarriesCatalogAndCart(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.AddProduct(1)
	require.NoError(t, err)

	page, err := h.session.Page("Storefront")
	require.NoError(t, err)
	assert.Equal(t, h.session.ID().String(), page.SessionID)
	assert.Equal(t, 1, page.Cart.ItemCount)
	assert.Contains(t, string(page.CatalogHTML), `data-product-id="6"`)
}

func TestActionsTouchIdleClock(t *testing.T) {
	renderer, err := render.New()
	require.NoError(t, err)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	sess, err := NewSession(SessionParams{
		Catalog:  catalog.Default(),
		Renderer: renderer,
		Toasts:   toast.NewQueue(toast.Options{Scheduler: toast.NewManualScheduler()}),
		Now:      func() time.Time { return clock },
	})
	require.NoError(t, err)

	assert.Equal(t, clock, sess.IdleSince())
	clock = clock.Add(5 * time.Minute)
	sess.ToggleDrawer(nil)
	assert.Equal(t, clock, sess.IdleSince())
}

func TestConcurrentActionsKeepInvariants(t *testing.T) {
	h := newHarness(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.session.AddItem("Tote", price("189.99"), "tote.jpg")
		}()
	}
	wg.Wait()

	require.Len(t, h.session.Lines(), 1)
	assert.Equal(t, 20, h.session.TotalItemCount())
	assert.True(t, h.session.TotalPrice().Equal(price("3799.80")))
}

func TestDismissToast(t *testing.T) {
	h := newHarness(t)
	view, err := h.session.AddProduct(1)
	require.NoError(t, err)
	require.Len(t, view.Toasts, 1)

	view, ok := h.session.DismissToast(view.Toasts[0].ID)
	assert.True(t, ok)
	assert.Empty(t, view.Toasts)
	assert.Equal(t, 0, h.sched.Pending())

	_, ok = h.session.DismissToast(uuid.New())
	assert.False(t, ok)
}
