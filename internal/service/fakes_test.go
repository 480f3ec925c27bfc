package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeBackend struct {
	mu         sync.Mutex
	orders     []models.Order
	products   []models.Product
	ordersErr  error
	updateErr  error
	deleteErr  error
	ordersFn   func(ctx context.Context) ([]models.Order, error)
	productsFn func(ctx context.Context) ([]models.Product, error)
	patches    []models.ProductPatch
	deleted    []string
}

func (f *fakeBackend) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	fn, orders, err := f.ordersFn, f.orders, f.ordersErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return orders, err
}

func (f *fakeBackend) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productsFn != nil {
		return f.productsFn(ctx)
	}
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, productID string, patch models.ProductPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.products {
		if f.products[i].ID == productID {
			if patch.Stock != nil {
				f.products[i].Stock = *patch.Stock
			}
			if patch.Unit != nil {
				f.products[i].Unit = *patch.Unit
			}
		}
	}
	return nil
}

func (f *fakeBackend) DeleteOrder(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, orderID)
	kept := f.orders[:0:0]
	for _, o := range f.orders {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	f.orders = kept
	return nil
}

type fakeCache struct {
	mu    sync.Mutex
	snap  *models.Snapshot
	saves int
}

func (f *fakeCache) SaveSnapshot(_ context.Context, snap *models.Snapshot, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *snap
	f.snap = &copied
	f.saves++
	return nil
}

func (f *fakeCache) LoadSnapshot(context.Context) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap == nil {
		return nil, errors.New("empty")
	}
	copied := *f.snap
	return &copied, nil
}

type fakeEvents struct {
	mu       sync.Mutex
	updated  []*models.StockUpdatedEvent
	reverted []*models.StockRevertedEvent
	prepared []*models.OutreachPreparedEvent
}

func (f *fakeEvents) PublishStockUpdated(_ context.Context, e *models.StockUpdatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, e)
	return nil
}

func (f *fakeEvents) PublishStockReverted(_ context.Context, e *models.StockRevertedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverted = append(f.reverted, e)
	return nil
}

func (f *fakeEvents) PublishOutreachPrepared(_ context.Context, e *models.OutreachPreparedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared = append(f.prepared, e)
	return nil
}

type fakeLocks struct {
	held map[string]bool
}

func (f *fakeLocks) AcquireEditLock(_ context.Context, productID string, _ time.Duration) (bool, error) {
	if f.held[productID] {
		return false, nil
	}
	f.held[productID] = true
	return true, nil
}

func (f *fakeLocks) ReleaseEditLock(_ context.Context, productID string) error {
	delete(f.held, productID)
	return nil
}

type fakeTemplates struct {
	byID map[string]models.MessageTemplate
}

func newFakeTemplates(templates ...models.MessageTemplate) *fakeTemplates {
	f := &fakeTemplates{byID: map[string]models.MessageTemplate{}}
	for _, t := range templates {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTemplates) ListTemplates(context.Context) ([]models.MessageTemplate, error) {
	out := []models.MessageTemplate{}
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplates) GetTemplate(_ context.Context, id string) (*models.MessageTemplate, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, store.ErrTemplateNotFound
	}
	return &t, nil
}

func (f *fakeTemplates) CreateTemplate(_ context.Context, tmpl *models.MessageTemplate) error {
	tmpl.ID = uuid.New().String()
	f.byID[tmpl.ID] = *tmpl
	return nil
}

func (f *fakeTemplates) UpdateTemplate(_ context.Context, tmpl *models.MessageTemplate) error {
	if _, ok := f.byID[tmpl.ID]; !ok {
		return store.ErrTemplateNotFound
	}
	f.byID[tmpl.ID] = *tmpl
	return nil
}

func (f *fakeTemplates) DeleteTemplate(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrTemplateNotFound
	}
	delete(f.byID, id)
	return nil
}

func order(id, customerID, name, phone string, total int64, status string, items ...models.LineItem) models.Order {
	return models.Order{
		ID:        id,
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Customer:  &models.CustomerRef{ID: customerID, Name: name, Phone: phone, Location: "Mumbai"},
		Items:     items,
		Total:     decimal.NewFromInt(total),
		Status:    status,
	}
}

func sampleBackend() *fakeBackend {
	return &fakeBackend{
		orders: []models.Order{
			order("o1", "c1", "Asha", "98765 43210", 100, models.OrderStatusDelivered,
				models.LineItem{ProductID: "p1", Name: "Rice", Quantity: 2, Price: decimal.NewFromInt(50), Unit: "Kg"}),
			order("o2", "c1", "Asha", "98765 43210", 200, models.OrderStatusCancelled),
			order("o3", "c2", "Ravi", "+91 90000 00001", 300, models.OrderStatusPending,
				models.LineItem{ProductID: "p2", Name: "Dal", Quantity: 1, Price: decimal.NewFromInt(300), Unit: "Kg"}),
		},
		products: []models.Product{
			{ID: "p1", SKU: "R1", Name: "Rice", Price: decimal.NewFromInt(50), Stock: 12, Unit: "Kg"},
			{ID: "p2", SKU: "D1", Name: "Dal", Price: decimal.NewFromInt(300), Stock: 0, Unit: "Kg"},
		},
	}
}
