package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(a *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", a.health)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/cart", http.StatusSeeOther)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", a.getCart)
		r.Post("/items", a.addItem)
		r.Post("/items/{productId}", a.updateItem)
		r.Post("/clear", a.clearCart)
		r.Post("/checkout", a.checkout)
	})

	r.Get("/orders/confirmation", a.getConfirmation)

	r.Post("/session", a.attachSession)
	r.Post("/session/logout", a.detachSession)

	r.Post("/notices/{noticeId}/dismiss", a.dismissNotice)

	return r
}
