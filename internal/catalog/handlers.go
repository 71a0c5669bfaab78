package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/common"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// Handler exposes the loaded catalog over HTTP.
type Handler struct {
	catalog *Catalog
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog *Catalog
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{catalog: cfg.Catalog}
}

// Products handles GET /api/v1/catalog with pagination.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not loaded", nil)
		return
	}
	page, perPage := common.ParsePagination(r, defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	products := h.catalog.Products()
	start, end := common.PageBounds(page, perPage, len(products))
	w.Header().Set("X-Total-Count", strconv.Itoa(len(products)))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       products[start:end],
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(products)},
	})
}

// Product handles GET /api/v1/catalog/{id}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not loaded", nil)
		return
	}
	id := chi.URLParam(r, "id")
	price, ok := h.catalog.Price(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", map[string]any{"id": id})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cart.LineItem{ID: id, Price: price}})
}
