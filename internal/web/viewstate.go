package web

import (
	"sync"

	"github.com/easyshop/storefront-go/internal/cart"
)

// ViewState implements cart.Renderer for a server-rendered page: the engine
// pushes mirror and confirmation state here, and page handlers read it back
// when they build HTML. One ViewState per session.
type ViewState struct {
	mu           sync.RWMutex
	cart         cart.Mirror
	confirmation *cart.Confirmation
}

func NewViewState() *ViewState {
	return &ViewState{cart: cart.EmptyMirror()}
}

func (v *ViewState) RenderCart(m cart.Mirror) {
	v.mu.Lock()
	v.cart = m
	v.mu.Unlock()
}

func (v *ViewState) RenderConfirmation(c cart.Confirmation) {
	v.mu.Lock()
	v.confirmation = &c
	v.mu.Unlock()
}

func (v *ViewState) Cart() cart.Mirror {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cart
}

// Confirmation returns the last composed confirmation, if any. It is
// discarded on ClearConfirmation when the user navigates away.
func (v *ViewState) Confirmation() (cart.Confirmation, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.confirmation == nil {
		return cart.Confirmation{}, false
	}
	return *v.confirmation, true
}

func (v *ViewState) ClearConfirmation() {
	v.mu.Lock()
	v.confirmation = nil
	v.mu.Unlock()
}
