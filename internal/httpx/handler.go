package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/contact"
)

// Handler serves the storefront API: the session cart, the product listing,
// and the contact form. Every cart route resolves the visitor's manager from
// the registry using the session ID planted by WithSession.
type Handler struct {
	carts    *cart.Registry
	catalog  *catalog.Catalog
	contacts *contact.Service
}

func NewHandler(carts *cart.Registry, cat *catalog.Catalog, contacts *contact.Service) *Handler {
	return &Handler{
		carts:    carts,
		catalog:  cat,
		contacts: contacts,
	}
}

// GetCart renders the session's cart: lines, item count, derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	m := h.carts.Get(r.Context(), sessionID(r))
	writeJSON(w, http.StatusOK, cartView(m, nil))
}

// AddItem puts one unit of a product into the cart. Adding a product already
// in the cart bumps its quantity instead of creating a second line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ID == "" || req.Name == "" || req.Price < 0 {
		writeError(w, http.StatusBadRequest, "invalid_item", "id and name are required and price must not be negative")
		return
	}

	m := h.carts.Get(r.Context(), sessionID(r))
	ev := m.Dispatch(r.Context(), cart.AddItem{ID: req.ID, Name: req.Name, UnitPrice: req.Price})

	slog.InfoContext(r.Context(), "cart item added",
		"session", sessionID(r), "product_id", req.ID, "count", ev.Count)

	writeJSON(w, http.StatusOK, cartView(m, ev.SaveErr))
}

// SetQuantity sets a line's quantity exactly. A quantity below one removes
// the line; an unknown product ID leaves the cart untouched.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "product_id_required", "")
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	m := h.carts.Get(r.Context(), sessionID(r))
	ev := m.Dispatch(r.Context(), cart.SetQuantity{ID: id, Quantity: req.Quantity})

	writeJSON(w, http.StatusOK, cartView(m, ev.SaveErr))
}

// RemoveItem deletes a line by product ID. Removing an absent product is not
// an error: the cart is simply returned unchanged.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "product_id_required", "")
		return
	}

	m := h.carts.Get(r.Context(), sessionID(r))
	ev := m.Dispatch(r.Context(), cart.RemoveItem{ID: id})

	writeJSON(w, http.StatusOK, cartView(m, ev.SaveErr))
}

// ClearCart empties the session's cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	m := h.carts.Get(r.Context(), sessionID(r))
	ev := m.Dispatch(r.Context(), cart.Clear{})

	writeJSON(w, http.StatusOK, cartView(m, ev.SaveErr))
}

// ListProducts returns the catalog filtered by the category and price query
// parameters. Both default to "all".
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	priceRange := r.URL.Query().Get("price")

	products := h.catalog.Filter(category, priceRange)
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Image:    p.Image,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// SubmitContact accepts the contact form and returns the acknowledgement.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	receipt, err := h.contacts.Submit(r.Context(), contact.Form{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, contact.ErrInvalidForm) {
			writeError(w, http.StatusBadRequest, "invalid_form", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "contact_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ContactResponse{
		ID:         receipt.ID,
		ReceivedAt: receipt.ReceivedAt.Format(time.RFC3339),
		Message:    receipt.Reply,
	})
}

// cartView renders the manager's current state. saveErr comes from the
// mutation event; it downgrades to a warning per the persistence contract.
func cartView(m *cart.Manager, saveErr error) CartResponse {
	lines := m.Lines()
	items := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		items[i] = CartLineResponse{
			ID:        l.ID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.Subtotal(),
		}
	}

	t := m.DerivedTotals()
	resp := CartResponse{
		Items: items,
		Count: m.ItemCount(),
		Totals: TotalsResponse{
			Subtotal: t.Subtotal,
			Tax:      t.Tax,
			Shipping: t.Shipping,
			Total:    t.Total,
		},
	}
	if saveErr != nil {
		resp.Warning = "cart could not be saved; changes may not survive this session"
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
