package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses reported by the backend
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Payment modes
const (
	PaymentCOD    = "COD"
	PaymentOnline = "Online"
)

// UnknownCustomerID buckets orders whose customer reference carries no id.
const UnknownCustomerID = "unknown"

// Line item defaults applied when the backend omits a field
const (
	DefaultItemName = "Product"
	DefaultItemUnit = "Unit"
)

// CustomerRef is the customer reference embedded in an order
type CustomerRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location,omitempty"`
}

// ShippingAddress is the delivery snapshot stored on an order
type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street,omitempty"`
	Area       string `json:"area,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// LineItem represents one product entry within an order
type LineItem struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	Image     string          `json:"image,omitempty"`
}

// Order is a normalized backend order
type Order struct {
	ID              string           `json:"id"`
	OrderNumber     string           `json:"order_number"`
	CreatedAt       time.Time        `json:"created_at"`
	Customer        *CustomerRef     `json:"customer,omitempty"`
	Items           []LineItem       `json:"items"`
	Total           decimal.Decimal  `json:"total"`
	Status          string           `json:"status"`
	PaymentMode     string           `json:"payment_mode"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
}

// IsCancelled reports whether the order is excluded from spend and sold counts
func (o Order) IsCancelled() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), OrderStatusCancelled)
}

// Product is a normalized backend product
type Product struct {
	ID       string          `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Unit     string          `json:"unit"`
	Image    string          `json:"image,omitempty"`
}

// ProductPatch is the partial update sent for a stock/unit edit
type ProductPatch struct {
	Stock *int    `json:"stock,omitempty"`
	Unit  *string `json:"unit,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p ProductPatch) Empty() bool {
	return p.Stock == nil && p.Unit == nil
}

// PurchaseRecord is one entry of a customer's history
type PurchaseRecord struct {
	OrderID     string           `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	Date        time.Time        `json:"date"`
	Total       decimal.Decimal  `json:"total"`
	Status      string           `json:"status"`
	PaymentMode string           `json:"payment_mode"`
	Items       []LineItem       `json:"items"`
	Shipping    *ShippingAddress `json:"shipping,omitempty"`
}

// CustomerAggregate is derived from the full order list on every fetch
type CustomerAggregate struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	State         string           `json:"state"`
	TotalSpent    decimal.Decimal  `json:"total_spent"`
	TotalOrders   int              `json:"total_orders"`
	LastOrderDate time.Time        `json:"last_order_date"`
	History       []PurchaseRecord `json:"history"`
}

// Stock statuses
const (
	StockOut  = "Out"
	StockLow  = "Low"
	StockGood = "Good"
)

// LowStockThreshold is the first stock level classified as Good
const LowStockThreshold = 10

// StockItem is a product reconciled against the order history
type StockItem struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock"`
	Unit      string          `json:"unit"`
	TotalSold int             `json:"total_sold"`
	Status    string          `json:"status"`
}

// Snapshot is one complete fetch of the backend collections
type Snapshot struct {
	Orders    []Order   `json:"orders"`
	Products  []Product `json:"products"`
	FetchedAt time.Time `json:"fetched_at"`
}

// MessageTemplate is a saved outreach message body
type MessageTemplate struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
