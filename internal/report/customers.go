// Package report derives customer aggregates, stock reconciliation and
// dashboard analytics from a fetched snapshot. Everything here is a pure,
// single-pass transform; nothing is persisted.
package report

import (
	"admin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// Customers is the customer-id → aggregate mapping of one order set.
// List keeps first-seen order so sorts can stay stable on ties.
type Customers struct {
	byID  map[string]*models.CustomerAggregate
	order []string
}

// AggregateCustomers folds orders into per-customer aggregates.
// Orders without a customer reference are skipped.
func AggregateCustomers(orders []models.Order) *Customers {
	result := &Customers{byID: make(map[string]*models.CustomerAggregate)}

	for _, order := range orders {
		if order.Customer == nil {
			continue
		}

		id := order.Customer.ID
		if id == "" {
			id = models.UnknownCustomerID
		}

		agg, ok := result.byID[id]
		if !ok {
			agg = &models.CustomerAggregate{
				ID:            id,
				Name:          order.Customer.Name,
				Phone:         order.Customer.Phone,
				State:         order.Customer.Location,
				TotalSpent:    decimal.Zero,
				LastOrderDate: order.CreatedAt,
				History:       make([]models.PurchaseRecord, 0, 1),
			}
			result.byID[id] = agg
			result.order = append(result.order, id)
		}

		if order.CreatedAt.After(agg.LastOrderDate) {
			agg.LastOrderDate = order.CreatedAt
		}

		if !order.IsCancelled() {
			agg.TotalOrders++
			agg.TotalSpent = agg.TotalSpent.Add(order.Total)
		}

		agg.History = append(agg.History, purchaseRecord(order))
	}

	return result
}

func purchaseRecord(order models.Order) models.PurchaseRecord {
	items := make([]models.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Name == "" {
			item.Name = models.DefaultItemName
		}
		if item.Unit == "" {
			item.Unit = models.DefaultItemUnit
		}
		items = append(items, item)
	}

	var shipping *models.ShippingAddress
	if order.ShippingAddress != nil {
		snapshot := *order.ShippingAddress
		shipping = &snapshot
	}

	return models.PurchaseRecord{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Date:        order.CreatedAt,
		Total:       order.Total,
		Status:      order.Status,
		PaymentMode: order.PaymentMode,
		Items:       items,
		Shipping:    shipping,
	}
}

// Get returns the aggregate for a customer id
func (c *Customers) Get(id string) (models.CustomerAggregate, bool) {
	agg, ok := c.byID[id]
	if !ok {
		return models.CustomerAggregate{}, false
	}
	return *agg, true
}

// List returns the aggregates in first-seen order
func (c *Customers) List() []models.CustomerAggregate {
	out := make([]models.CustomerAggregate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id])
	}
	return out
}

// Len returns the number of customers
func (c *Customers) Len() int {
	return len(c.order)
}
