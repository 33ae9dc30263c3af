package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/easyshop/storefront-go/internal/clients"
)

// StoreAPI is the slice of the backend API the engine consumes. All calls
// require an authenticated session; the engine checks the oracle first and
// never issues them otherwise.
type StoreAPI interface {
	GetCart(ctx context.Context) ([]byte, error)
	AddCartProduct(ctx context.Context, productID string) error
	SetCartQuantity(ctx context.Context, productID string, quantity int) error
	ClearCart(ctx context.Context) error
	GetProfile(ctx context.Context) ([]byte, error)
	CreateOrder(ctx context.Context) ([]byte, error)
}

// Oracle answers whether the current user is authenticated.
type Oracle interface {
	IsAuthenticated() bool
	DisplayName() string
}

// Notifier receives transient user-facing notices. Dismissal timing belongs
// to the sink, not the engine.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
	ClearErrors()
}

// Renderer repaints the page. The engine calls it after every successful
// mirror replacement and once per composed confirmation; it never pushes
// partial state mid-mutation.
type Renderer interface {
	RenderCart(m Mirror)
	RenderConfirmation(c Confirmation)
}

// User-facing notice texts.
const (
	MsgLoginToAdd    = "Please log in to add items to your cart."
	MsgLoginToUpdate = "Please log in to update your cart."
	MsgLoginToClear  = "Please log in to clear your cart."
	MsgLoginToOrder  = "Please log in to place an order."

	MsgOutOfStock   = "This item is out of stock."
	MsgAdded        = "Added to cart! (Limit: 3 per customer)"
	MsgUpdated      = "Cart updated! (Limit: 3 per customer)"
	MsgCleared      = "Cleared cart."
	MsgItemNotFound = "That item isn't in your cart yet."
	MsgEmptyCart    = "Your cart is empty."

	MsgLoadFailed     = "Load cart failed."
	MsgAddFailed      = "Add to cart failed."
	MsgUpdateFailed   = "Update quantity failed."
	MsgClearFailed    = "Empty cart failed."
	MsgCheckoutFailed = "Checkout failed."

	MsgIncompleteProfile = "Please complete your Profile (email, phone, address, city, state, zip) before checkout."
)

// CapacityMsg is the informational notice for a no-op add at the cap.
func CapacityMsg(maxAllowed int) string {
	return fmt.Sprintf("Only %d available per customer (limited by stock and max 3).", maxAllowed)
}

// AdjustedMsg is the notice for an update whose requested quantity had to
// be clamped.
func AdjustedMsg(clamped int) string {
	return fmt.Sprintf("Quantity adjusted to %d. (Limit: 3 per customer and cannot exceed stock)", clamped)
}

// Engine keeps the mirror consistent with the server through
// load -> mutate -> reload cycles. One engine serves one session.
//
// All operations are serialized by opMu: a second user action issued while
// one is in flight waits for the first to finish, so a later-resolving
// response can never silently overwrite an earlier mutation. The mirror
// itself has one writer (the engine) and any number of readers via
// Snapshot.
//
// Every failure is converted to a notice at the operation boundary; no
// error escapes to the caller and the mirror stays at its last known-good
// state.
type Engine struct {
	api    StoreAPI
	auth   Oracle
	notify Notifier
	render Renderer
	log    logrus.FieldLogger

	opMu sync.Mutex

	mu     sync.RWMutex
	mirror Mirror
}

func NewEngine(api StoreAPI, auth Oracle, notify Notifier, render Renderer, log logrus.FieldLogger) *Engine {
	return &Engine{
		api:    api,
		auth:   auth,
		notify: notify,
		render: render,
		log:    log,
		mirror: EmptyMirror(),
	}
}

// Snapshot returns a deep copy of the current mirror.
func (e *Engine) Snapshot() Mirror {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mirror.Clone()
}

func (e *Engine) replaceMirror(m Mirror) {
	e.mu.Lock()
	e.mirror = m
	e.mu.Unlock()
	e.render.RenderCart(m.Clone())
}

// load fetches the authoritative cart and replaces the mirror. Callers
// must hold opMu. On transport failure the mirror is left unchanged.
func (e *Engine) load(ctx context.Context) error {
	if !e.auth.IsAuthenticated() {
		e.replaceMirror(EmptyMirror())
		return nil
	}

	body, err := e.api.GetCart(ctx)
	if err != nil {
		return err
	}
	e.replaceMirror(ParseCart(body))
	return nil
}

// Load refreshes the mirror from the server. Unauthenticated sessions get
// an empty mirror without a network call; a transport failure leaves the
// mirror unchanged and raises a load-failed notice.
func (e *Engine) Load(ctx context.Context) Mirror {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if err := e.load(ctx); err != nil {
		e.log.WithError(err).Warn("load cart")
		e.notify.Error(MsgLoadFailed)
	}
	return e.Snapshot()
}

// AddToCart adds delta units of the product, respecting the cap computed
// from current stock. The sequence is load, compute target, mutate, reload,
// so the mirror only ever reflects server-confirmed state.
func (e *Engine) AddToCart(ctx context.Context, productID string, delta, stock int) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.auth.IsAuthenticated() {
		e.notify.Error(MsgLoginToAdd)
		return
	}
	if delta < 1 {
		delta = 1
	}

	maxAllowed := MaxAllowed(stock)
	if maxAllowed == 0 {
		e.notify.Error(MsgOutOfStock)
		return
	}

	fail := func(err error) {
		e.log.WithError(err).WithField("productId", productID).Warn("add to cart")
		e.notify.Error(MsgAddFailed)
	}

	if err := e.load(ctx); err != nil {
		fail(err)
		return
	}

	existing, found := e.Snapshot().Find(productID)
	existingQty := 0
	if found {
		existingQty = existing.Quantity
	}

	target := TargetQuantity(existingQty, delta, maxAllowed)
	if target == existingQty {
		// At capacity already; not an error and no network call.
		e.notify.Info(CapacityMsg(maxAllowed))
		return
	}

	if !found {
		// New line starts at quantity 1 server-side; follow with a
		// set-quantity call only when the target is above that.
		if err := e.api.AddCartProduct(ctx, productID); err != nil {
			fail(err)
			return
		}
		if target > 1 {
			if err := e.api.SetCartQuantity(ctx, productID, target); err != nil {
				fail(err)
				return
			}
		}
	} else {
		if err := e.api.SetCartQuantity(ctx, productID, target); err != nil {
			fail(err)
			return
		}
	}

	// Resynchronize: stock or price may have moved between read and write.
	if err := e.load(ctx); err != nil {
		fail(err)
		return
	}
	e.notify.Success(MsgAdded)
}

// UpdateQuantity sets the absolute quantity of a line, clamped to the cap
// computed from current stock. A clamped request reports an adjustment
// notice distinct from plain success; a 404 reports the item as not in the
// cart, which signals mirror/server divergence rather than a failure.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, requested, stock int) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.auth.IsAuthenticated() {
		e.notify.Error(MsgLoginToUpdate)
		return
	}
	if requested < 1 {
		requested = 1
	}

	maxAllowed := MaxAllowed(stock)
	if maxAllowed == 0 {
		e.notify.Error(MsgOutOfStock)
		return
	}

	clamped := ClampQuantity(requested, maxAllowed)

	if err := e.api.SetCartQuantity(ctx, productID, clamped); err != nil {
		e.log.WithError(err).WithField("productId", productID).Warn("update quantity")
		if clients.IsStatus(err, http.StatusNotFound) {
			e.notify.Error(MsgItemNotFound)
		} else {
			e.notify.Error(MsgUpdateFailed)
		}
		return
	}

	if err := e.load(ctx); err != nil {
		e.log.WithError(err).WithField("productId", productID).Warn("update quantity reload")
		e.notify.Error(MsgUpdateFailed)
		return
	}

	if clamped != requested {
		e.notify.Info(AdjustedMsg(clamped))
	} else {
		e.notify.Success(MsgUpdated)
	}
}

// ClearCart deletes every line server-side and resynchronizes. Clearing an
// already-empty cart is a server no-op and still reports success.
func (e *Engine) ClearCart(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.auth.IsAuthenticated() {
		e.notify.Error(MsgLoginToClear)
		return
	}

	if err := e.api.ClearCart(ctx); err != nil {
		e.log.WithError(err).Warn("clear cart")
		e.notify.Error(MsgClearFailed)
		return
	}
	if err := e.load(ctx); err != nil {
		e.log.WithError(err).Warn("clear cart reload")
		e.notify.Error(MsgClearFailed)
		return
	}
	// A fresh cart also starts with a fresh error region.
	e.notify.ClearErrors()
	e.notify.Success(MsgCleared)
}

// PlaceOrder checks out the cart. A snapshot of the mirror is taken before
// any network call and used as the confirmation fallback; the profile
// completeness check is a precondition and blocks order creation entirely.
func (e *Engine) PlaceOrder(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.auth.IsAuthenticated() {
		e.notify.Error(MsgLoginToOrder)
		return
	}

	snapshot := e.Snapshot()
	if snapshot.IsEmpty() {
		e.notify.Error(MsgEmptyCart)
		return
	}

	checkoutFail := func(stage string, err error) {
		e.log.WithError(err).Warn(stage)
		if msg := clients.ServerMessage(err); msg != "" {
			e.notify.Error(msg)
		} else {
			e.notify.Error(MsgCheckoutFailed)
		}
	}

	profileBody, err := e.api.GetProfile(ctx)
	if err != nil {
		checkoutFail("checkout: fetch profile", err)
		return
	}
	profile := ParseProfile(profileBody)

	if missing := profile.MissingCheckoutFields(); len(missing) > 0 {
		e.log.WithField("missing", missing).Info("checkout blocked by incomplete profile")
		e.notify.Error(MsgIncompleteProfile)
		return
	}

	orderBody, err := e.api.CreateOrder(ctx)
	if err != nil {
		checkoutFail("checkout: create order", err)
		return
	}

	conf := ComposeConfirmation(ParseOrder(orderBody), profile, snapshot, e.auth.DisplayName())
	e.render.RenderConfirmation(conf)

	// The server empties the cart on checkout; reload to pick that up. The
	// order already succeeded, so a failure here is only a load failure.
	if err := e.load(ctx); err != nil {
		e.log.WithError(err).Warn("post-checkout reload")
		e.notify.Error(MsgLoadFailed)
	}
}
