package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/api/internal/application/product"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/transport/http/middleware"
)

// ProductHandler handles the public catalog and the seller-gated
// product and discount-code endpoints.
type ProductHandler struct {
	svc *product.Service
}

func NewProductHandler(svc *product.Service) *ProductHandler { return &ProductHandler{svc: svc} }

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return ident.ID, true
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.CreateProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), sellerID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// List serves the public catalog page. Pagination is cursor-based.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	products, next, err := h.svc.ListProducts(r.Context(), int32(limit), cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, ProductListEnvelope{Data: products, NextCursor: next})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListMine returns everything the calling seller has listed.
func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	products, err := h.svc.ListSellerProducts(r.Context(), sellerID)
	if err != nil {
		httpError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, ProductListEnvelope{Data: products})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.CreateProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), sellerID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), sellerID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "product deleted"})
}

func (h *ProductHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.AttachImageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.AttachImage(r.Context(), sellerID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing image key")
		return
	}
	if err := h.svc.RemoveImage(r.Context(), sellerID, chi.URLParam(r, "id"), key); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "image removed"})
}

func (h *ProductHandler) CreateDiscountCode(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.CreateDiscountCodeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.CreateDiscountCode(r.Context(), sellerID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *ProductHandler) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	codes, err := h.svc.ListDiscountCodes(r.Context(), sellerID)
	if err != nil {
		httpError(w, err)
		return
	}
	if codes == nil {
		codes = []domain.DiscountCode{}
	}
	writeJSON(w, http.StatusOK, codes)
}

func (h *ProductHandler) DeleteDiscountCode(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteDiscountCode(r.Context(), sellerID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "discount code deleted"})
}
