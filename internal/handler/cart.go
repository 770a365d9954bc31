package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/internal/checkout"
	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/middleware"
	"github.com/dinithim/storefront-checkout/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type SessionResolver interface {
	Session(ctx context.Context, sessionID string) (*checkout.Session, error)
}

type ProductCatalog interface {
	Product(ctx context.Context, id string) (entities.Product, error)
	Products(ctx context.Context) ([]entities.Product, error)
	Categories(ctx context.Context) ([]entities.Category, error)
}

type CartHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	sessions SessionResolver
	catalog  ProductCatalog
}

func NewCartHandler(logger *slog.Logger, sessions SessionResolver, catalog ProductCatalog) *CartHandler {
	return &CartHandler{
		logger:   logger.With(slog.String("handler", "cart")),
		validate: utils.NewValidator(),
		sessions: sessions,
		catalog:  catalog,
	}
}

func (h *CartHandler) Init(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items", h.SetQuantity)
		r.Delete("/items/{product_id}", h.RemoveItem)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	snap, err := sess.Cart.Snapshot(ctx)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, cartToResponse(snap), http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddItemRequest
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

	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	outcome, err := sess.Cart.AddItem(ctx, product, req.Variant)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	snap, err := sess.Cart.Snapshot(ctx)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, AddItemResponse{
		Outcome: outcomeToJSON(outcome),
		Cart:    cartToResponse(snap),
	}, http.StatusOK)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SetQuantityRequest
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

	if err := sess.Cart.SetQuantity(ctx, req.ProductID, req.Variant, req.Quantity); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	snap, err := sess.Cart.Snapshot(ctx)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, cartToResponse(snap), http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	if err := h.validate.Var(productID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	sess.Cart.RemoveItem(ctx, productID)

	snap, err := sess.Cart.Snapshot(ctx)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, cartToResponse(snap), http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	sess.Cart.Clear(ctx)
	w.WriteHeader(http.StatusNoContent)
}
