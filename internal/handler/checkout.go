package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/middleware"
	"github.com/dinithim/storefront-checkout/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	logger   *slog.Logger
	sessions SessionResolver
}

func NewCheckoutHandler(logger *slog.Logger, sessions SessionResolver) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger.With(slog.String("handler", "checkout")),
		sessions: sessions,
	}
}

func (h *CheckoutHandler) Init(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Post("/", h.Begin)
		r.Delete("/", h.Abandon)
		r.Post("/address", h.SubmitAddress)
		r.Post("/retry", h.RetryCreate)
		r.Post("/payment", h.ConfirmPayment)
	})
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, flowToResponse(sess.Flow), http.StatusOK)
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	state, err := sess.Flow.Begin(ctx)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, CheckoutStateResponse{State: state.String()}, http.StatusOK)
}

func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var addr entities.Address
	if err := utils.DecodeBody(r, &addr); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	result, err := sess.Flow.SubmitAddress(ctx, addr)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, SubmitAddressResponse{
		State:        sess.Flow.State().String(),
		Order:        result.Order,
		DroppedLines: result.Dropped,
	}, http.StatusCreated)
}

func (h *CheckoutHandler) RetryCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	order, err := sess.Flow.RetryCreate(ctx)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, OrderResponse{
		State: sess.Flow.State().String(),
		Order: order,
	}, http.StatusCreated)
}

func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	order, err := sess.Flow.ConfirmPayment(ctx)
	if errors.Is(err, entities.ErrNoResumableOrder) {
		// send the shopper back to the address step
		utils.WriteJSON(w, NoResumableOrderResponse{
			Message: "no order awaiting payment",
			Next:    "ADDRESS_CAPTURE",
		}, http.StatusConflict)
		return
	}
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	utils.WriteJSON(w, OrderResponse{
		State: sess.Flow.State().String(),
		Order: order,
	}, http.StatusOK)
}

func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.sessions.Session(ctx, middleware.SessionID(ctx))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if err := sess.Flow.Abandon(ctx); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
