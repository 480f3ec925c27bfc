package models

import "time"

// Event types published by the dashboard
const (
	EventTypeStockUpdated     = "STOCK_UPDATED"
	EventTypeStockReverted    = "STOCK_REVERTED"
	EventTypeOutreachPrepared = "OUTREACH_PREPARED"
)

// Event types consumed from the backend
const (
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderUpdated   = "ORDER_UPDATED"
	EventTypeOrderDeleted   = "ORDER_DELETED"
	EventTypeProductCreated = "PRODUCT_CREATED"
	EventTypeProductUpdated = "PRODUCT_UPDATED"
	EventTypeProductDeleted = "PRODUCT_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// StockUpdatedEvent published after the backend confirmed a stock/unit edit
type StockUpdatedEvent struct {
	BaseEvent
	ProductID     string `json:"product_id"`
	PreviousStock int    `json:"previous_stock"`
	Stock         int    `json:"stock"`
	PreviousUnit  string `json:"previous_unit"`
	Unit          string `json:"unit"`
}

// StockRevertedEvent published when a rejected edit forced a re-fetch
type StockRevertedEvent struct {
	BaseEvent
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// OutreachPreparedEvent published when a dispatch link is handed out
type OutreachPreparedEvent struct {
	BaseEvent
	Kind       string `json:"kind"`
	CustomerID string `json:"customer_id,omitempty"`
	Phone      string `json:"phone"`
	TemplateID string `json:"template_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
}

// BackendChangeEvent is any order or product change announced by the backend
type BackendChangeEvent struct {
	BaseEvent
	EntityID string `json:"entity_id,omitempty"`
}
