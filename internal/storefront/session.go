package storefront

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/drawer"
	"github.com/angelmondragon/storefront/internal/render"
	"github.com/angelmondragon/storefront/internal/toast"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Recorder receives storefront events for metrics.
type Recorder interface {
	toast.Recorder
	CartAction(action string)
	Checkout(outcome string)
	SessionsActive(n int)
	ObserveSweep(duration time.Duration, evicted int)
}

// View is everything the display surface needs after an action.
type View struct {
	SessionID string          `json:"session_id"`
	Cart      render.CartView `json:"cart"`
	Drawer    drawer.View     `json:"drawer"`
	Toasts    []toast.Toast   `json:"toasts"`
}

// Session is one page load's worth of storefront state. Actions on a session are serialized.
type Session struct {
	mu       sync.Mutex
	id       uuid.UUID
	catalog  *catalog.Catalog
	renderer *render.Renderer
	store    *cart.Store
	toasts   *toast.Queue
	drawer   drawer.Drawer
	recorder Recorder
	now      func() time.Time
	lastSeen time.Time
	cartView render.CartView
}

type SessionParams struct {
	ID       uuid.UUID
	Catalog  *catalog.Catalog
	Renderer *render.Renderer
	Toasts   *toast.Queue
	Recorder Recorder
	Now      func() time.Time
}

func NewSession(p SessionParams) (*Session, error) {
	if p.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session requires a catalog")
	}
	if p.Renderer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session requires a renderer")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Toasts == nil {
		p.Toasts = toast.NewQueue(toast.Options{Recorder: p.Recorder})
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	s := &Session{
		id:       p.ID,
		catalog:  p.Catalog,
		renderer: p.Renderer,
		store:    cart.NewStore(),
		toasts:   p.Toasts,
		recorder: p.Recorder,
		now:      p.Now,
	}
	s.lastSeen = s.now()
	if err := s.rerender(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// AddItem merges by name or appends a new line, then re-renders and confirms.
func (s *Session) AddItem(name string, price decimal.Decimal, image string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(name, price, image)
}

// AddProduct adds a catalog product by id.
func (s *Session) AddProduct(productID int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.catalog.ByID(productID)
	if !ok {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID})
	}
	return s.addLocked(item.Name, item.Price, item.Image)
}

func (s *Session) addLocked(name string, price decimal.Decimal, image string) (View, error) {
	s.touch()
	change := s.store.Add(name, price, image)
	if err := s.rerender(); err != nil {
		return View{}, err
	}
	s.recordCart(change)
	if change == cart.ChangeAdded {
		s.toasts.Push(msgItemAdded(name))
	} else {
		s.toasts.Push(msgQuantityUpdated(name))
	}
	return s.viewLocked(), nil
}

// RemoveItem deletes the line for name. The confirmation is shown even when nothing matched.
func (s *Session) RemoveItem(name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	change := s.store.Remove(name)
	if err := s.rerender(); err != nil {
		return View{}, err
	}
	s.recordCart(change)
	s.toasts.Push(msgItemRemoved)
	return s.viewLocked(), nil
}

// AdjustQuantity changes a line's quantity by delta. Plain changes are silent; dropping to
// zero behaves exactly like RemoveItem.
func (s *Session) AdjustQuantity(name string, delta int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	change := s.store.Adjust(name, delta)
	if change == cart.ChangeNone {
		return s.viewLocked(), nil
	}
	if err := s.rerender(); err != nil {
		return View{}, err
	}
	s.recordCart(change)
	if change == cart.ChangeRemoved {
		s.toasts.Push(msgItemRemoved)
	}
	return s.viewLocked(), nil
}

// ToggleDrawer forces the drawer to *force when set, otherwise flips it.
func (s *Session) ToggleDrawer(force *bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.drawer.Toggle(force)
	return s.viewLocked()
}

// Escape closes the drawer if it is open.
func (s *Session) Escape() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.drawer.Escape()
	return s.viewLocked()
}

// Checkout is a mock: it confirms, empties the cart and closes the drawer. Nothing is recorded
// or sent anywhere.
func (s *Session) Checkout() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.store.IsEmpty() {
		s.toasts.Push(msgCartEmpty)
		s.recordCheckout("empty")
		return s.viewLocked(), nil
	}
	s.toasts.Push(msgOrderPlaced)
	s.recordCart(s.store.Clear())
	if err := s.rerender(); err != nil {
		return View{}, err
	}
	closed := false
	s.drawer.Toggle(&closed)
	s.recordCheckout("placed")
	return s.viewLocked(), nil
}

// DismissToast removes a notification before its timers run out.
func (s *Session) DismissToast(id uuid.UUID) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	ok := s.toasts.Dismiss(id)
	return s.viewLocked(), ok
}

// View returns the current projection without mutating anything.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.viewLocked()
}

// Lines exposes a snapshot of the cart for callers that need raw values.
func (s *Session) Lines() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Lines()
}

func (s *Session) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TotalItemCount()
}

func (s *Session) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TotalPrice()
}

func (s *Session) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawer.IsOpen()
}

// Page renders the whole document for this session.
func (s *Session) Page(title string) (render.PageData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	catalogHTML, err := s.renderer.Catalog(s.catalog.Items())
	if err != nil {
		return render.PageData{}, err
	}
	return render.PageData{
		Title:       title,
		SessionID:   s.id.String(),
		CatalogHTML: catalogHTML,
		Cart:        s.cartView,
		Drawer:      s.drawer.View(),
	}, nil
}

// IdleSince reports when the session last handled an action.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close cancels pending toast timers.
func (s *Session) Close() {
	s.toasts.Close()
}

func (s *Session) rerender() error {
	view, err := s.renderer.CartFromStore(s.store)
	if err != nil {
		return err
	}
	s.cartView = view
	return nil
}

func (s *Session) viewLocked() View {
	return View{
		SessionID: s.id.String(),
		Cart:      s.cartView,
		Drawer:    s.drawer.View(),
		Toasts:    s.toasts.Visible(),
	}
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

func (s *Session) recordCart(change cart.Change) {
	if s.recorder != nil && change != cart.ChangeNone {
		s.recorder.CartAction(change.String())
	}
}

func (s *Session) recordCheckout(outcome string) {
	if s.recorder != nil {
		s.recorder.Checkout(outcome)
	}
}
