package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"order-management/internal/common/logger"
	"order-management/internal/connections/rabbitmq"
	"order-management/internal/domain"
)

// Routing keys on the orders.events exchange.
const (
	KeyOrderCreated       = "order.created"
	KeyOrderStatusChanged = "order.status_changed"
	KeyOrderDeleted       = "order.deleted"
)

type Event struct {
	ID             string        `json:"id"`
	OrderID        int64         `json:"order_id"`
	OrderNumber    string        `json:"order_number"`
	Status         domain.Status `json:"status"`
	PreviousStatus domain.Status `json:"previous_status,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// Publisher emits order lifecycle events. Implementations must not fail the
// calling request: publishing is best-effort and errors stay internal.
type Publisher interface {
	OrderCreated(ctx context.Context, o *domain.Order)
	OrderStatusChanged(ctx context.Context, o *domain.Order, previous domain.Status)
	OrderDeleted(ctx context.Context, o *domain.Order)
}

// confirmPublisher is the slice of the AMQP client the publisher needs;
// tests substitute a fake.
type confirmPublisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table) error
}

type AMQPPublisher struct {
	client confirmPublisher
	lg     *logger.Logger
}

func NewAMQPPublisher(client confirmPublisher, lg *logger.Logger) *AMQPPublisher {
	return &AMQPPublisher{client: client, lg: lg}
}

func (p *AMQPPublisher) OrderCreated(ctx context.Context, o *domain.Order) {
	p.publish(ctx, KeyOrderCreated, Event{
		OrderID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status,
	})
}

func (p *AMQPPublisher) OrderStatusChanged(ctx context.Context, o *domain.Order, previous domain.Status) {
	p.publish(ctx, KeyOrderStatusChanged, Event{
		OrderID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status, PreviousStatus: previous,
	})
}

func (p *AMQPPublisher) OrderDeleted(ctx context.Context, o *domain.Order) {
	p.publish(ctx, KeyOrderDeleted, Event{
		OrderID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status,
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, key string, evt Event) {
	evt.ID = uuid.NewString()
	evt.OccurredAt = time.Now().UTC()

	body, err := json.Marshal(evt)
	if err != nil {
		p.lg.Error("event_marshal_failed", err, map[string]any{"key": key})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	headers := amqp.Table{"x-source": "order-api"}
	if err := p.client.Publish(ctx, rabbitmq.OrdersExchange, key, body, headers); err != nil {
		p.lg.Error("event_publish_failed", err, map[string]any{
			"key": key, "order_id": evt.OrderID,
		})
		return
	}
	p.lg.Debug("event_published", map[string]any{"key": key, "order_id": evt.OrderID})
}

// NoopPublisher keeps the service runnable without a broker.
type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(context.Context, *domain.Order)                      {}
func (NoopPublisher) OrderStatusChanged(context.Context, *domain.Order, domain.Status) {}
func (NoopPublisher) OrderDeleted(context.Context, *domain.Order)                      {}
