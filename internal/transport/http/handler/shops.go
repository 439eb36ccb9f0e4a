package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/api/internal/application/product"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/transport/http/middleware"
)

// ShopHandler handles seller storefront endpoints.
type ShopHandler struct {
	svc *product.Service
}

func NewShopHandler(svc *product.Service) *ShopHandler { return &ShopHandler{svc: svc} }

// Create opens the caller's shop. Mounted behind the seller role gate.
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateShopRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	shop, err := h.svc.CreateShop(r.Context(), ident.ID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shop)
}

func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, err := h.svc.GetShop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}
