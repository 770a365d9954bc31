// Package checkout drives the multi-step pipeline from a snapshotted cart to
// a confirmed order. Order creation and payment confirmation are two
// independently resumable steps bridged by a durable order handle, so a page
// reload between them neither loses the order nor double-creates it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dinithim/storefront-checkout/internal/cart"
	"github.com/dinithim/storefront-checkout/internal/entities"
)

// OrderGateway is the slice of the Order Service this flow needs.
type OrderGateway interface {
	CreateOrder(ctx context.Context, draft entities.OrderDraft) (entities.Order, error)
	ConfirmPayment(ctx context.Context, orderID string, outcome entities.PaymentStatus) (entities.Order, error)
}

// ProductSource extends the cart's resolver with a cache-bypassing read.
// Stock re-validation must not see the same cached response the cart already
// trusted, or the check validates nothing.
type ProductSource interface {
	cart.ProductResolver
	FreshProduct(ctx context.Context, id string) (entities.Product, error)
}

// Continuity is the single-slot durable handle store.
type Continuity interface {
	SetOrderID(ctx context.Context, sessionID, orderID string) error
	OrderID(ctx context.Context, sessionID string) (string, bool, error)
	ClearOrderID(ctx context.Context, sessionID string) error
}

// EventSink receives checkout lifecycle events. Publishing must never fail
// the flow; implementations log and move on.
type EventSink interface {
	OrderCreated(ctx context.Context, sessionID string, order entities.Order)
	PaymentConfirmed(ctx context.Context, sessionID string, order entities.Order)
	CheckoutAbandoned(ctx context.Context, sessionID string)
}

// SubmitResult reports what SubmitAddress did: the created order and any
// lines that were dropped because their stock ran out between adding to cart
// and checking out.
type SubmitResult struct {
	Order   entities.Order
	Dropped []string
}

type Orchestrator struct {
	logger     *slog.Logger
	sessionID  string
	cart       *cart.Store
	resolver   ProductSource
	continuity Continuity
	orders     OrderGateway
	events     EventSink

	mu       sync.Mutex
	state    State
	snapshot entities.CartSnapshot
	draft    *entities.OrderDraft
	orderID  string
	inFlight bool
	lastErr  error
}

func NewOrchestrator(logger *slog.Logger, sessionID string, cartStore *cart.Store, resolver ProductSource, continuity Continuity, orders OrderGateway, events EventSink) *Orchestrator {
	return &Orchestrator{
		logger:     logger.With(slog.String("component", "checkout"), slog.String("session_id", sessionID)),
		sessionID:  sessionID,
		cart:       cartStore,
		resolver:   resolver,
		continuity: continuity,
		orders:     orders,
		events:     events,
		state:      StateEmpty,
	}
}

// Resume picks up an in-flight order left by a previous page view. The
// handle's presence is the sole signal that the payment step is resumable.
func (o *Orchestrator) Resume(ctx context.Context) error {
	orderID, ok, err := o.continuity.OrderID(ctx, o.sessionID)
	if err != nil {
		return fmt.Errorf("failed to read order handle: %w", err)
	}
	if !ok {
		return nil
	}
	o.mu.Lock()
	o.orderID = orderID
	o.state = StateAwaitingPayment
	o.mu.Unlock()
	o.logger.Info("resumed in-flight order", slog.String("order_id", orderID))
	return nil
}

// Begin snapshots the cart and enters address capture. Entering checkout
// with zero cart lines is rejected and the flow never proceeds past this
// check.
func (o *Orchestrator) Begin(ctx context.Context) (State, error) {
	snap, err := o.cart.Snapshot(ctx)
	if err != nil {
		return o.State(), fmt.Errorf("failed to snapshot cart: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inFlight {
		return o.state, entities.ErrOperationInProgress
	}
	if o.state == StateAwaitingPayment || o.state == StatePaymentProcessing {
		// an order already exists for this session; finish or abandon it
		return o.state, entities.ErrInvalidTransition
	}

	if snap.Empty() {
		o.state = StateEmpty
		return o.state, entities.ErrEmptyCart
	}

	o.snapshot = snap
	o.state = StateAddressCapture
	checkoutsStarted.Inc()
	return o.state, nil
}

// SubmitAddress validates the shipping address, re-validates the snapshot
// against live stock, creates the order, and durably stores its id. Creation
// is not idempotent at the transport level, so it is gated on
// ADDRESS_CAPTURE: once a create has succeeded this flow never issues
// another for the same snapshot.
func (o *Orchestrator) SubmitAddress(ctx context.Context, addr entities.Address) (SubmitResult, error) {
	if err := validateAddress(addr); err != nil {
		return SubmitResult{}, err
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return SubmitResult{}, entities.ErrOperationInProgress
	}
	if o.state != StateAddressCapture {
		o.mu.Unlock()
		if o.state == StateEmpty {
			return SubmitResult{}, entities.ErrEmptyCart
		}
		return SubmitResult{}, entities.ErrInvalidTransition
	}
	snapshot := o.snapshot
	o.inFlight = true
	o.mu.Unlock()

	// Cached stock is not authoritative: re-resolve and drop lines that ran
	// out rather than failing the whole submission.
	lines, dropped, err := o.revalidateStock(ctx, snapshot)
	if err != nil {
		o.finish(StateAddressCapture, err)
		return SubmitResult{}, err
	}
	if len(lines) == 0 {
		o.finish(StateAddressCapture, entities.ErrEmptyCart)
		return SubmitResult{Dropped: dropped}, entities.ErrEmptyCart
	}

	draft := entities.OrderDraft{Lines: lines, ShippingAddress: addr}

	o.mu.Lock()
	o.state = StateOrderPending
	o.draft = &draft
	o.mu.Unlock()

	order, err := o.createOrder(ctx, draft)
	if err != nil {
		return SubmitResult{Dropped: dropped}, err
	}
	return SubmitResult{Order: order, Dropped: dropped}, nil
}

// RetryCreate re-issues order creation with the preserved draft after a
// transient or authentication failure. The shopper does not re-enter the
// form. The flow never auto-retries; this is the caller's affordance.
func (o *Orchestrator) RetryCreate(ctx context.Context) (entities.Order, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return entities.Order{}, entities.ErrOperationInProgress
	}
	if o.state != StateFailed || o.draft == nil || o.orderID != "" {
		o.mu.Unlock()
		return entities.Order{}, entities.ErrInvalidTransition
	}
	draft := *o.draft
	o.state = StateOrderPending
	o.inFlight = true
	o.mu.Unlock()

	return o.createOrder(ctx, draft)
}

// createOrder performs the ORDER_PENDING leg. Callers have set inFlight.
func (o *Orchestrator) createOrder(ctx context.Context, draft entities.OrderDraft) (entities.Order, error) {
	order, err := o.orders.CreateOrder(ctx, draft)
	if err != nil {
		var ve *entities.ValidationError
		switch {
		case errors.As(err, &ve):
			// field-scoped and user-correctable: back to the form
			o.finish(StateAddressCapture, err)
			checkoutFailures.WithLabelValues("create_validation").Inc()
		case errors.Is(err, entities.ErrAuthRequired):
			o.finish(StateFailed, err)
			checkoutFailures.WithLabelValues("create_auth").Inc()
		default:
			o.finish(StateFailed, err)
			checkoutFailures.WithLabelValues("create").Inc()
		}
		return entities.Order{}, err
	}

	// Persisting the handle and the transition are one unit: losing the id
	// makes the order unresumable, so the transition rolls back.
	if err := o.continuity.SetOrderID(ctx, o.sessionID, order.ID); err != nil {
		o.logger.Error("order created but handle not persisted",
			slog.String("order_id", order.ID), slog.Any("error", err))
		o.finish(StateAddressCapture, entities.ErrOrderPersistence)
		checkoutFailures.WithLabelValues("persist_handle").Inc()
		return entities.Order{}, fmt.Errorf("%w: %v", entities.ErrOrderPersistence, err)
	}

	o.mu.Lock()
	o.orderID = order.ID
	o.state = StateAwaitingPayment
	o.inFlight = false
	o.lastErr = nil
	o.mu.Unlock()

	ordersCreated.Inc()
	o.events.OrderCreated(ctx, o.sessionID, order)
	o.logger.Info("order created", slog.String("order_id", order.ID))
	return order, nil
}

// ConfirmPayment resolves the in-flight order handle and requests the PAID
// transition. On success the cart and the handle are cleared; on failure the
// handle is preserved so confirmation can be retried without recreating the
// order.
func (o *Orchestrator) ConfirmPayment(ctx context.Context) (entities.Order, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return entities.Order{}, entities.ErrOperationInProgress
	}
	orderID := o.orderID
	o.mu.Unlock()

	if orderID == "" {
		// the shopper may have navigated straight to the payment step
		id, ok, err := o.continuity.OrderID(ctx, o.sessionID)
		if err != nil {
			return entities.Order{}, fmt.Errorf("failed to read order handle: %w", err)
		}
		if !ok {
			return entities.Order{}, entities.ErrNoResumableOrder
		}
		orderID = id
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return entities.Order{}, entities.ErrOperationInProgress
	}
	o.orderID = orderID
	o.state = StatePaymentProcessing
	o.inFlight = true
	o.mu.Unlock()

	order, err := o.orders.ConfirmPayment(ctx, orderID, entities.PaymentPaid)
	if err != nil {
		// handle stays: confirmation is the step most likely to fail
		// transiently and must be retryable as-is
		o.finish(StateFailed, err)
		checkoutFailures.WithLabelValues("confirm").Inc()
		return entities.Order{}, err
	}

	o.cart.Clear(ctx)
	if err := o.continuity.ClearOrderID(ctx, o.sessionID); err != nil {
		// the order is paid; a stale handle is recoverable on next resume
		o.logger.Error("failed to clear order handle", slog.Any("error", err))
	}

	o.mu.Lock()
	o.state = StateComplete
	o.orderID = ""
	o.draft = nil
	o.inFlight = false
	o.lastErr = nil
	o.mu.Unlock()

	paymentsConfirmed.Inc()
	o.events.PaymentConfirmed(ctx, o.sessionID, order)
	o.logger.Info("payment confirmed", slog.String("order_id", order.ID))
	return order, nil
}

// Abandon resets the flow and clears the durable handle so a stale order id
// is never silently resumed later.
func (o *Orchestrator) Abandon(ctx context.Context) error {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return entities.ErrOperationInProgress
	}
	hadOrder := o.orderID != ""
	o.state = StateEmpty
	o.snapshot = entities.CartSnapshot{}
	o.draft = nil
	o.orderID = ""
	o.lastErr = nil
	o.mu.Unlock()

	if err := o.continuity.ClearOrderID(ctx, o.sessionID); err != nil {
		return fmt.Errorf("failed to clear order handle: %w", err)
	}
	if hadOrder {
		checkoutsAbandoned.Inc()
	}
	o.events.CheckoutAbandoned(ctx, o.sessionID)
	return nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OrderID returns the in-flight order id, if any.
func (o *Orchestrator) OrderID() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orderID, o.orderID != ""
}

// LastError returns the failure that put the flow in its current state.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Snapshot returns the frozen cart the checkout was begun with.
func (o *Orchestrator) Snapshot() entities.CartSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// revalidateStock re-resolves each snapshot line against the live catalog,
// bypassing the catalog cache. Lines whose stock ran out (or whose product
// vanished) are dropped with a warning; lines exceeding live stock are
// clamped.
func (o *Orchestrator) revalidateStock(ctx context.Context, snap entities.CartSnapshot) ([]entities.SnapshotLine, []string, error) {
	kept := make([]entities.SnapshotLine, 0, len(snap.Lines))
	var dropped []string
	for _, l := range snap.Lines {
		product, err := o.resolver.FreshProduct(ctx, l.Product.ID)
		if errors.Is(err, entities.ErrProductNotFound) {
			o.logger.Warn("dropping vanished product", slog.String("product_id", l.Product.ID))
			dropped = append(dropped, l.Product.ID)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve product %s: %w", l.Product.ID, err)
		}
		variant, err := product.ResolveVariant(l.Variant.Name)
		if err != nil || variant.Stock <= 0 {
			o.logger.Warn("dropping out-of-stock line",
				slog.String("product_id", l.Product.ID), slog.String("variant", l.Variant.Name))
			dropped = append(dropped, l.Product.ID)
			continue
		}
		if l.Quantity > variant.Stock {
			o.logger.Warn("clamping line to live stock",
				slog.String("product_id", l.Product.ID),
				slog.Int("requested", l.Quantity), slog.Int("stock", variant.Stock))
			l.Quantity = variant.Stock
		}
		l.Product = product
		l.Variant = variant
		kept = append(kept, l)
	}
	return kept, dropped, nil
}

// finish releases the in-flight guard and records the outcome state.
func (o *Orchestrator) finish(state State, err error) {
	o.mu.Lock()
	o.state = state
	o.lastErr = err
	o.inFlight = false
	o.mu.Unlock()
}
