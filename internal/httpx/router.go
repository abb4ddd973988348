package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter wires the storefront routes with the standard middleware stack.
// The returned handler is wrapped with otelhttp so every request carries a
// server span that the trace-aware logger can pick up.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(WithSession)

	r.Get("/cart", handler.GetCart)
	r.Post("/cart/items", handler.AddItem)
	r.Put("/cart/items/{id}", handler.SetQuantity)
	r.Delete("/cart/items/{id}", handler.RemoveItem)
	r.Delete("/cart", handler.ClearCart)

	r.Get("/products", handler.ListProducts)
	r.Post("/contact", handler.SubmitContact)

	return otelhttp.NewHandler(r, "storefront")
}
