package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/order"
)

// AdminHandlers serves the admin panel: product management and the quotation
// inbox. The router guards every route here with the staff middleware.
type AdminHandlers struct {
	catalog catalog.Store
	orders  *order.Service
}

func NewAdminHandlers(cs catalog.Store, orders *order.Service) *AdminHandlers {
	return &AdminHandlers{catalog: cs, orders: orders}
}

// Product Handlers

// CreateProduct validates an untyped product document and stores it under a
// fresh ID. Admin input arrives as loose JSON; ParseDocument is the boundary
// that rejects malformed prices and discounts before they reach the catalog.
func (h *AdminHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := catalog.ParseDocument(uuid.New().String(), doc)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(product.Sizes) == 0 {
		respondJSONError(w, "at least one size is required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := h.catalog.Put(r.Context(), product); err != nil {
		respondJSONError(w, "failed to store product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")

	existing, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := catalog.ParseDocument(id, doc)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(product.Sizes) == 0 {
		respondJSONError(w, "at least one size is required", http.StatusBadRequest)
		return
	}

	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	if err := h.catalog.Put(r.Context(), product); err != nil {
		respondJSONError(w, "failed to store product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to delete product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Order Handlers

func (h *AdminHandlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondJSONError(w, "failed to load quotations", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *AdminHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/orders/")
	id = strings.TrimSuffix(id, "/status")

	snap, err := h.orders.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondJSONError(w, "quotation not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to load quotation", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// UpdateOrderStatus moves a quotation through its lifecycle from the admin
// panel: contacted, completed or cancelled.
func (h *AdminHandlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/admin/orders/")
	id := strings.TrimSuffix(path, "/status")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, order.ErrUnknownStatus):
			respondJSONError(w, "unknown status", http.StatusBadRequest)
		case errors.Is(err, order.ErrNotFound):
			respondJSONError(w, "quotation not found", http.StatusNotFound)
		default:
			respondJSONError(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}
