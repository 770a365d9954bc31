package handler

import (
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/pkg/utils"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler proxies the cached product catalog so the storefront has a
// single origin to talk to.
type CatalogHandler struct {
	logger  *slog.Logger
	catalog ProductCatalog
}

func NewCatalogHandler(logger *slog.Logger, catalog ProductCatalog) *CatalogHandler {
	return &CatalogHandler{
		logger:  logger.With(slog.String("handler", "catalog")),
		catalog: catalog,
	}
}

func (h *CatalogHandler) Init(r chi.Router) {
	r.Get("/products", h.GetProducts)
	r.Get("/categories", h.GetCategories)
}

func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, products, http.StatusOK)
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, categories, http.StatusOK)
}
