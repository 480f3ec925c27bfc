package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes dashboard audit events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBase(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// PublishStockUpdated publishes STOCK_UPDATED
func (ep *EventPublisher) PublishStockUpdated(ctx context.Context, event *models.StockUpdatedEvent) error {
	event.BaseEvent = newBase(models.EventTypeStockUpdated)
	return ep.publish(ctx, "product-"+event.ProductID, event.EventType, event)
}

// PublishStockReverted publishes STOCK_REVERTED
func (ep *EventPublisher) PublishStockReverted(ctx context.Context, event *models.StockRevertedEvent) error {
	event.BaseEvent = newBase(models.EventTypeStockReverted)
	return ep.publish(ctx, "product-"+event.ProductID, event.EventType, event)
}

// PublishOutreachPrepared publishes OUTREACH_PREPARED
func (ep *EventPublisher) PublishOutreachPrepared(ctx context.Context, event *models.OutreachPreparedEvent) error {
	event.BaseEvent = newBase(models.EventTypeOutreachPrepared)
	return ep.publish(ctx, "phone-"+event.Phone, event.EventType, event)
}

func (ep *EventPublisher) publish(ctx context.Context, key, eventType string, event interface{}) error {
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(eventType).Inc()
		return err
	}
	return nil
}

// EventHandler routes backend change events
type EventHandler struct {
	onOrderChange   func(context.Context, *models.BackendChangeEvent) error
	onProductChange func(context.Context, *models.BackendChangeEvent) error
	logger          *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderChange registers a handler for ORDER_* events
func (eh *EventHandler) OnOrderChange(handler func(context.Context, *models.BackendChangeEvent) error) {
	eh.onOrderChange = handler
}

// OnProductChange registers a handler for PRODUCT_* events
func (eh *EventHandler) OnProductChange(handler func(context.Context, *models.BackendChangeEvent) error) {
	eh.onProductChange = handler
}

// HandleMessage routes messages to the registered handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event models.BackendChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal backend event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", event.EventType),
		zap.String("id", event.EventID))

	switch event.EventType {
	case models.EventTypeOrderCreated, models.EventTypeOrderUpdated, models.EventTypeOrderDeleted:
		if eh.onOrderChange != nil {
			return eh.onOrderChange(ctx, &event)
		}

	case models.EventTypeProductCreated, models.EventTypeProductUpdated, models.EventTypeProductDeleted:
		if eh.onProductChange != nil {
			return eh.onProductChange(ctx, &event)
		}

	default:
		if !strings.HasPrefix(event.EventType, "STOCK_") && !strings.HasPrefix(event.EventType, "OUTREACH_") {
			eh.logger.Debug("Unhandled event type", zap.String("type", event.EventType))
		}
	}

	return nil
}
