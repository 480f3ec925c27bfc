package service

import (
	"context"
	"errors"
	"testing"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/stockedit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newStockFixture(t *testing.T) (*StockService, *DashboardService, *fakeBackend, *fakeEvents) {
	t.Helper()
	backend := sampleBackend()
	dashboard := newDashboard(t, backend, nil)
	require.NoError(t, dashboard.Refresh(context.Background()))

	events := &fakeEvents{}
	return NewStockService(dashboard, backend, events, nil), dashboard, backend, events
}

func TestUpdateConfirmed(t *testing.T) {
	svc, dashboard, backend, events := newStockFixture(t)

	item, err := svc.Update(context.Background(), "p2", models.ProductPatch{Stock: intPtr(5), Unit: strPtr(" Packet ")})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)
	assert.Equal(t, "Packet", item.Unit)
	assert.Equal(t, models.StockLow, item.Status)

	assert.Equal(t, stockedit.Saved, svc.EditState("p2").State)
	require.Len(t, backend.patches, 1)
	assert.Equal(t, "Packet", *backend.patches[0].Unit)

	stored, err := dashboard.StockItem("p2")
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)

	require.Len(t, events.updated, 1)
	assert.Equal(t, 0, events.updated[0].PreviousStock)
	assert.Equal(t, 5, events.updated[0].Stock)
}

func TestUpdateRejectedResyncs(t *testing.T) {
	svc, dashboard, backend, events := newStockFixture(t)
	backend.updateErr = errors.New("422 validation")

	_, err := svc.Update(context.Background(), "p1", models.ProductPatch{Stock: intPtr(99)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpdateFailed))

	stored, err := dashboard.StockItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Stock, "authoritative value after re-fetch")
	assert.Equal(t, stockedit.Viewing, svc.EditState("p1").State)

	require.Len(t, events.reverted, 1)
	assert.Equal(t, "p1", events.reverted[0].ProductID)
	assert.Empty(t, events.updated)
}

func TestConfirmedEditSurvivesEarlierRefresh(t *testing.T) {
	svc, dashboard, backend, _ := newStockFixture(t)

	backend.mu.Lock()
	preEdit := make([]models.Product, len(backend.products))
	copy(preEdit, backend.products)
	calls := 0
	backend.productsFn = func(context.Context) ([]models.Product, error) {
		calls++
		out := make([]models.Product, len(preEdit))
		copy(out, preEdit)
		return out, nil
	}
	orders := backend.orders
	entered := make(chan struct{})
	release := make(chan struct{})
	backend.ordersFn = func(context.Context) ([]models.Order, error) {
		close(entered)
		<-release
		return orders, nil
	}
	backend.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- dashboard.Refresh(context.Background()) }()
	<-entered

	_, err := svc.Update(context.Background(), "p1", models.ProductPatch{Stock: intPtr(42)})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	backend.mu.Lock()
	assert.Equal(t, 1, calls)
	backend.mu.Unlock()

	stored, err := dashboard.StockItem("p1")
	require.NoError(t, err)
	assert.Equal(t, 42, stored.Stock, "refresh started before the edit must not overwrite it")
	assert.Equal(t, stockedit.Saved, svc.EditState("p1").State)
}

func TestUpdateValidatesPatch(t *testing.T) {
	svc, _, backend, _ := newStockFixture(t)

	_, err := svc.Update(context.Background(), "p1", models.ProductPatch{})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Update(context.Background(), "p1", models.ProductPatch{Stock: intPtr(-1)})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Update(context.Background(), "p1", models.ProductPatch{Unit: strPtr("  ")})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.Empty(t, backend.patches)
	assert.Equal(t, stockedit.Viewing, svc.EditState("p1").State)
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc, _, _, _ := newStockFixture(t)

	_, err := svc.Update(context.Background(), "nope", models.ProductPatch{Stock: intPtr(1)})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateAfterExplicitBegin(t *testing.T) {
	svc, _, _, _ := newStockFixture(t)

	state, err := svc.BeginEdit("p1")
	require.NoError(t, err)
	assert.Equal(t, stockedit.Editing, state.State)

	_, err = svc.Update(context.Background(), "p1", models.ProductPatch{Stock: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, stockedit.Saved, svc.EditState("p1").State)
}

func TestCancelEdit(t *testing.T) {
	svc, _, _, _ := newStockFixture(t)

	_, err := svc.CancelEdit("p1")
	assert.True(t, errors.Is(err, stockedit.ErrInvalidTransition))

	_, err = svc.BeginEdit("p1")
	require.NoError(t, err)

	state, err := svc.CancelEdit("p1")
	require.NoError(t, err)
	assert.Equal(t, stockedit.Viewing, state.State)
}

func TestUpdateRejectedWhileLockedElsewhere(t *testing.T) {
	backend := sampleBackend()
	dashboard := newDashboard(t, backend, nil)
	require.NoError(t, dashboard.Refresh(context.Background()))

	locks := &fakeLocks{held: map[string]bool{"p1": true}}
	svc := NewStockService(dashboard, backend, nil, locks)

	_, err := svc.Update(context.Background(), "p1", models.ProductPatch{Stock: intPtr(4)})
	assert.True(t, errors.Is(err, ErrEditInProgress))
	assert.True(t, errors.Is(err, stockedit.ErrInvalidTransition))
	assert.Empty(t, backend.patches)
	assert.Equal(t, stockedit.Viewing, svc.EditState("p1").State)

	delete(locks.held, "p1")
	_, err = svc.Update(context.Background(), "p1", models.ProductPatch{Stock: intPtr(4)})
	require.NoError(t, err)
	assert.False(t, locks.held["p1"], "lock released after save")
}
