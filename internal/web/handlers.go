package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// defaultStock matches the product pages that post add-to-cart without a
// stock field; the cap then comes from the per-customer limit alone.
const defaultStock = 999999

func formInt(r *http.Request, field string, fallback int) int {
	v := r.PostFormValue(field)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (a *App) getCart(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	// Navigating back to the cart discards any previous confirmation.
	st.views.ClearConfirmation()

	st.engine.Load(r.Context())

	data := buildCartPage(st.views.Cart(), st.session.IsAuthenticated(), st.sink.Active())
	if err := a.tmpl.ExecuteTemplate(w, "cart", data); err != nil {
		a.log.WithError(err).Error("render cart page")
	}
}

func (a *App) addItem(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	productID := r.PostFormValue("productId")
	quantity := formInt(r, "quantity", 1)
	stock := formInt(r, "stock", defaultStock)

	if productID != "" {
		st.engine.AddToCart(r.Context(), productID, quantity, stock)
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (a *App) updateItem(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	productID := chi.URLParam(r, "productId")
	quantity := formInt(r, "quantity", 1)
	stock := formInt(r, "stock", defaultStock)

	st.engine.UpdateQuantity(r.Context(), productID, quantity, stock)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (a *App) clearCart(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)
	st.engine.ClearCart(r.Context())
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (a *App) checkout(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	st.views.ClearConfirmation()
	st.engine.PlaceOrder(r.Context())

	if _, ok := st.views.Confirmation(); ok {
		http.Redirect(w, r, "/orders/confirmation", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (a *App) getConfirmation(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	conf, ok := st.views.Confirmation()
	if !ok {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	data := confirmationPageData{
		Confirmation: conf,
		BadgeItem:    len(st.views.Cart().Items),
		Notices:      st.sink.Active(),
	}
	if err := a.tmpl.ExecuteTemplate(w, "confirmation", data); err != nil {
		a.log.WithError(err).Error("render confirmation page")
	}
}

// attachSession binds an authenticated identity (token issued by the
// backend's login flow, which is outside this app) to the session and
// loads the user's cart. Login mechanics themselves are not ours.
func (a *App) attachSession(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	token := r.PostFormValue("token")
	name := r.PostFormValue("displayName")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	st.session.Attach(token, name)
	st.engine.Load(r.Context())
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// detachSession logs out by discarding the whole session state: engine,
// mirror, notices and the auth session itself. The next request starts a
// fresh guest session.
func (a *App) detachSession(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)

	st.session.Detach()
	a.dropState(st.session.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (a *App) dismissNotice(w http.ResponseWriter, r *http.Request) {
	st := a.state(w, r)
	st.sink.Dismiss(chi.URLParam(r, "noticeId"))
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
