package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/middleware"
	"github.com/dinithim/storefront-checkout/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// SavedHandler exposes the save-for-later list. Saved ids are resolved
// against the catalog on read; products that vanished are skipped.
type SavedHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	sessions SessionResolver
	catalog  ProductCatalog
}

func NewSavedHandler(logger *slog.Logger, sessions SessionResolver, catalog ProductCatalog) *SavedHandler {
	return &SavedHandler{
		logger:   logger.With(slog.String("handler", "saved")),
		validate: utils.NewValidator(),
		sessions: sessions,
		catalog:  catalog,
	}
}

func (h *SavedHandler) Init(r chi.Router) {
	r.Get("/saved-items", h.GetSavedItems)
	r.Post("/saved-items/toggle", h.ToggleSaved)
}

func (h *SavedHandler) GetSavedItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	items := make([]entities.Product, 0)
	for _, id := range sess.Saved.IDs() {
		product, err := h.catalog.Product(ctx, id)
		if errors.Is(err, entities.ErrProductNotFound) {
			continue
		}
		if err != nil {
			writeDomainError(h.logger, w, err)
			return
		}
		items = append(items, product)
	}
	utils.WriteJSON(w, SavedItemsResponse{Items: items}, http.StatusOK)
}

func (h *SavedHandler) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ToggleSavedRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	// toggling a product the catalog no longer knows is allowed: unsaving a
	// vanished item must still work
	saved := sess.Saved.Toggle(ctx, req.ProductID)
	utils.WriteJSON(w, ToggleSavedResponse{
		ProductID: req.ProductID,
		Saved:     saved,
	}, http.StatusOK)
}
