package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/example/sneaker-shop/internal/cart"
	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/checkout"
	"github.com/example/sneaker-shop/internal/order"
)

// Handlers serves the storefront endpoints: catalog browsing, the cart and
// checkout. Admin endpoints live in AdminHandlers.
type Handlers struct {
	catalog  catalog.Store
	carts    *cart.Manager
	orders   *order.Service
	shipping checkout.ShippingPolicy
	handoff  checkout.Handoff
}

func NewHandlers(cs catalog.Store, carts *cart.Manager, orders *order.Service, shipping checkout.ShippingPolicy, handoff checkout.Handoff) *Handlers {
	return &Handlers{
		catalog:  cs,
		carts:    carts,
		orders:   orders,
		shipping: shipping,
		handoff:  handoff,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []catalog.Product
		err      error
	)

	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.catalog.ListByCategory(r.Context(), category)
	} else {
		products, err = h.catalog.List(r.Context())
	}
	if err != nil {
		respondJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		products = catalog.Search(products, q)
	}
	if products == nil {
		products = []catalog.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Cart Handlers

// CartView is the cart representation returned to the storefront.
type CartView struct {
	Items     []cart.Line `json:"items"`
	ItemCount int         `json:"item_count"`
	Subtotal  string      `json:"subtotal"`
	Shipping  string      `json:"shipping"`
	Total     string      `json:"total"`
}

func (h *Handlers) cartView(store *cart.Store) CartView {
	items := store.Lines()
	if items == nil {
		items = []cart.Line{}
	}

	subtotal := store.Total()
	shipping := h.shipping.FeeFor(subtotal)
	return CartView{
		Items:     items,
		ItemCount: store.ItemCount(),
		Subtotal:  subtotal.StringFixed(2),
		Shipping:  shipping.StringFixed(2),
		Total:     subtotal.Add(shipping).StringFixed(2),
	}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Cart(r.Context(), sessionID(w, r))
	respondJSON(w, http.StatusOK, h.cartView(store))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	store := h.carts.Cart(r.Context(), sessionID(w, r))
	if err := store.Add(r.Context(), product, req.Quantity, req.Size); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartView(store))
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Size  string `json:"size"`
		Delta int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	store := h.carts.Cart(r.Context(), sessionID(w, r))
	if err := store.UpdateQuantity(r.Context(), productID, req.Size, req.Delta); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartView(store))
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")
	size := r.URL.Query().Get("size")

	store := h.carts.Cart(r.Context(), sessionID(w, r))
	if err := store.Remove(r.Context(), productID, size); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartView(store))
}

// Checkout Handlers

// CheckoutResponse carries the recorded quotation and the messaging handoff.
type CheckoutResponse struct {
	Quotation   checkout.Snapshot `json:"quotation"`
	WhatsAppURL string            `json:"whatsapp_url"`
	Message     string            `json:"message"`
}

// Checkout freezes the cart into a quotation, records it and clears the cart.
// A recording failure leaves the cart untouched so the shopper can retry.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Cart(r.Context(), sessionID(w, r))

	lines := store.Lines()
	if len(lines) == 0 {
		respondJSONError(w, "cart is empty", http.StatusBadRequest)
		return
	}

	snap := checkout.BuildSnapshot(lines, h.shipping, checkout.MethodCart)
	if err := h.orders.RecordQuotation(r.Context(), snap); err != nil {
		respondJSONError(w, "failed to record quotation", http.StatusInternalServerError)
		return
	}

	if err := store.Clear(r.Context()); err != nil {
		// The quotation is already recorded; an unclearable slot is not
		// worth failing the checkout over.
		log.Printf("[API] Failed to clear cart after checkout %s: %v", snap.ID, err)
	}

	respondJSON(w, http.StatusCreated, CheckoutResponse{
		Quotation:   snap,
		WhatsAppURL: h.handoff.Link(snap),
		Message:     h.handoff.Message(snap),
	})
}

// CheckoutDirect quotes an immediate single-product purchase. The shopper's
// cart is never involved.
func (h *Handlers) CheckoutDirect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	snap, err := checkout.BuildDirectSnapshot(product, req.Quantity, req.Size, h.shipping)
	if err != nil {
		respondCartError(w, err)
		return
	}

	if err := h.orders.RecordQuotation(r.Context(), snap); err != nil {
		respondJSONError(w, "failed to record quotation", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponse{
		Quotation:   snap,
		WhatsAppURL: h.handoff.Link(snap),
		Message:     h.handoff.Message(snap),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrMissingSize):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		respondJSONError(w, "cart update failed", http.StatusInternalServerError)
	}
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

const sessionCookie = "cart_session"

// sessionID identifies the shopper's cart. First contact mints a cookie; the
// cart follows it across requests and restarts via its slot.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
