package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dinithim/storefront-checkout/internal/config"
	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	typeOrderCreated      = "checkout.order_created"
	typePaymentConfirmed  = "checkout.payment_confirmed"
	typeCheckoutAbandoned = "checkout.abandoned"
)

type envelope struct {
	Type       string          `json:"type"`
	SessionID  string          `json:"session_id"`
	OrderID    string          `json:"order_id,omitempty"`
	Total      decimal.Decimal `json:"total,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Publisher emits checkout lifecycle events to Kafka. Publishing is best
// effort: a broker outage must never fail a shopper's checkout, so errors
// are logged and dropped.
type Publisher struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("component", "events")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
			Async:        true,
		},
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, sessionID string, order entities.Order) {
	p.publish(ctx, envelope{
		Type:      typeOrderCreated,
		SessionID: sessionID,
		OrderID:   order.ID,
		Total:     orderTotal(order),
	})
}

func (p *Publisher) PaymentConfirmed(ctx context.Context, sessionID string, order entities.Order) {
	p.publish(ctx, envelope{
		Type:      typePaymentConfirmed,
		SessionID: sessionID,
		OrderID:   order.ID,
		Total:     orderTotal(order),
	})
}

func (p *Publisher) CheckoutAbandoned(ctx context.Context, sessionID string) {
	p.publish(ctx, envelope{
		Type:      typeCheckoutAbandoned,
		SessionID: sessionID,
	})
}

func (p *Publisher) publish(ctx context.Context, e envelope) {
	e.OccurredAt = time.Now().UTC()
	data, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("failed to marshal event", slog.Any("error", err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(e.SessionID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			slog.String("type", e.Type),
			slog.Any("error", err),
		)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func orderTotal(order entities.Order) decimal.Decimal {
	total := decimal.Zero
	for _, it := range order.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
