package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderReader interface {
	Order(ctx context.Context, orderID string) (entities.Order, error)
	MyOrders(ctx context.Context) ([]entities.Order, error)
}

// OrdersHandler exposes read access to the shopper's orders. Both routes
// require a bearer token; the gateway rejects the call before it leaves the
// process when none is present.
type OrdersHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	orders   OrderReader
}

func NewOrdersHandler(logger *slog.Logger, orders OrderReader) *OrdersHandler {
	return &OrdersHandler{
		logger:   logger.With(slog.String("handler", "orders")),
		validate: utils.NewValidator(),
		orders:   orders,
	}
}

func (h *OrdersHandler) Init(r chi.Router) {
	r.Get("/orders", h.GetMyOrders)
	r.Get("/orders/{order_id}", h.GetOrder)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.Order(ctx, orderID)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, order, http.StatusOK)
}

func (h *OrdersHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.MyOrders(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, orders, http.StatusOK)
}
