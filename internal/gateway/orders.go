package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/internal/entities"
)

// Orders adapts the Order Service. Creation and confirmation are issued
// exactly once per call: there is no idempotency key on the wire, so
// transport-level retry would risk double orders. The orchestrator owns the
// retry affordance.
type Orders struct {
	logger *slog.Logger
	client *Client
}

func NewOrders(logger *slog.Logger, client *Client) *Orders {
	return &Orders{
		logger: logger.With(slog.String("gateway", "orders")),
		client: client,
	}
}

func (g *Orders) CreateOrder(ctx context.Context, draft entities.OrderDraft) (entities.Order, error) {
	var out orderJSON
	if err := g.client.do(ctx, http.MethodPost, "/orders", draftToJSON(draft), &out, true); err != nil {
		return entities.Order{}, err
	}
	return orderToEntity(out), nil
}

func (g *Orders) ConfirmPayment(ctx context.Context, orderID string, outcome entities.PaymentStatus) (entities.Order, error) {
	body := confirmPaymentJSON{OrderID: orderID, Outcome: string(outcome)}
	var out orderJSON
	if err := g.client.do(ctx, http.MethodPost, "/payments/confirm", body, &out, true); err != nil {
		return entities.Order{}, err
	}
	return orderToEntity(out), nil
}

func (g *Orders) Order(ctx context.Context, orderID string) (entities.Order, error) {
	var out orderJSON
	if err := g.client.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &out, true); err != nil {
		return entities.Order{}, err
	}
	return orderToEntity(out), nil
}

func (g *Orders) MyOrders(ctx context.Context) ([]entities.Order, error) {
	var out []orderJSON
	if err := g.client.do(ctx, http.MethodGet, "/orders/mine", nil, &out, true); err != nil {
		return nil, err
	}
	orders := make([]entities.Order, 0, len(out))
	for _, o := range out {
		orders = append(orders, orderToEntity(o))
	}
	return orders, nil
}
