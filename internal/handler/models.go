package handler

import (
	"github.com/dinithim/storefront-checkout/internal/cart"
	"github.com/dinithim/storefront-checkout/internal/checkout"
	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant"`
}

type SetQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	Lines         []entities.SnapshotLine `json:"lines"`
	Total         decimal.Decimal         `json:"total"`
	TotalQuantity int                     `json:"total_quantity"`
}

func cartToResponse(snap entities.CartSnapshot) CartResponse {
	quantity := 0
	for _, l := range snap.Lines {
		quantity += l.Quantity
	}
	if snap.Lines == nil {
		snap.Lines = []entities.SnapshotLine{}
	}
	return CartResponse{
		Lines:         snap.Lines,
		Total:         snap.Total,
		TotalQuantity: quantity,
	}
}

type AddItemResponse struct {
	Outcome string       `json:"outcome"`
	Cart    CartResponse `json:"cart"`
}

func outcomeToJSON(outcome cart.AddOutcome) string {
	if outcome == cart.StockExhausted {
		return "stock_exhausted"
	}
	return "added"
}

type CheckoutStateResponse struct {
	State   string `json:"state"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func flowToResponse(flow *checkout.Orchestrator) CheckoutStateResponse {
	resp := CheckoutStateResponse{State: flow.State().String()}
	if id, ok := flow.OrderID(); ok {
		resp.OrderID = id
	}
	if err := flow.LastError(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

type SubmitAddressResponse struct {
	State        string         `json:"state"`
	Order        entities.Order `json:"order"`
	DroppedLines []string       `json:"dropped_lines,omitempty"`
}

type OrderResponse struct {
	State string         `json:"state"`
	Order entities.Order `json:"order"`
}

// NoResumableOrderResponse tells the client where to send the shopper when
// there is no order to pay for.
type NoResumableOrderResponse struct {
	Message string `json:"message"`
	Next    string `json:"next"`
}

type ToggleSavedRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type ToggleSavedResponse struct {
	ProductID string `json:"product_id"`
	Saved     bool   `json:"saved"`
}

type SavedItemsResponse struct {
	Items []entities.Product `json:"items"`
}
