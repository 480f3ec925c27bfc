package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboard(t *testing.T, backend *fakeBackend, cache SnapshotCache) *DashboardService {
	t.Helper()
	return NewDashboardService(backend, cache, DashboardOptions{PageSize: 10, CacheTTL: time.Hour})
}

func TestRefreshAggregatesSnapshot(t *testing.T) {
	cache := &fakeCache{}
	svc := newDashboard(t, sampleBackend(), cache)

	require.NoError(t, svc.Refresh(context.Background()))

	status := svc.Status()
	assert.True(t, status.Loaded)
	assert.False(t, status.Stale)
	assert.Equal(t, SourceBackend, status.Source)
	assert.Equal(t, 3, status.Orders)
	assert.Equal(t, 2, status.Customers)
	assert.Equal(t, 1, cache.saves)

	page, _ := svc.Customers(view.CustomerQuery{Page: 1})
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c2", page.Items[0].ID, "highest spent first")

	asha, _, err := svc.Customer("c1")
	require.NoError(t, err)
	assert.Equal(t, 1, asha.TotalOrders)
	assert.Len(t, asha.History, 2)
}

func TestViewsBeforeFirstLoadAreEmpty(t *testing.T) {
	svc := newDashboard(t, sampleBackend(), nil)

	page, status := svc.Customers(view.CustomerQuery{Page: 3})
	assert.False(t, status.Loaded)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)

	stock, _ := svc.Stock(view.StockQuery{})
	assert.Empty(t, stock.Items)
}

func TestFetchFailureKeepsPriorSnapshot(t *testing.T) {
	backend := sampleBackend()
	svc := newDashboard(t, backend, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	backend.mu.Lock()
	backend.ordersErr = errors.New("connection refused")
	backend.mu.Unlock()

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))

	status := svc.Status()
	assert.True(t, status.Stale)
	assert.Contains(t, status.LastError, "connection refused")
	assert.Equal(t, 2, status.Customers, "stale but valid")

	page, _ := svc.Customers(view.CustomerQuery{Page: 1})
	assert.Len(t, page.Items, 2)
}

func TestFetchFailureFallsBackToCache(t *testing.T) {
	cache := &fakeCache{}
	require.NoError(t, newDashboard(t, sampleBackend(), cache).Refresh(context.Background()))

	broken := sampleBackend()
	broken.ordersErr = errors.New("timeout")
	svc := newDashboard(t, broken, cache)

	err := svc.Refresh(context.Background())
	assert.True(t, errors.Is(err, ErrFetchFailed))

	status := svc.Status()
	assert.True(t, status.Loaded)
	assert.True(t, status.Stale)
	assert.Equal(t, SourceCache, status.Source)
	assert.Equal(t, 2, status.Customers)
}

func TestSupersededRefreshIsDiscarded(t *testing.T) {
	backend := sampleBackend()
	release := make(chan struct{})
	entered := make(chan struct{})

	first := []models.Order{order("old", "c9", "Old", "1", 1, models.OrderStatusPending)}
	calls := 0
	backend.ordersFn = func(ctx context.Context) ([]models.Order, error) {
		backend.mu.Lock()
		calls++
		n := calls
		backend.mu.Unlock()

		if n == 1 {
			close(entered)
			<-release
			return first, nil
		}
		return backend.orders, nil
	}

	svc := newDashboard(t, backend, nil)

	done := make(chan error, 1)
	go func() { done <- svc.Refresh(context.Background()) }()
	<-entered

	require.NoError(t, svc.Refresh(context.Background()))
	close(release)
	require.NoError(t, <-done)

	_, _, err := svc.Customer("c9")
	assert.True(t, errors.Is(err, ErrNotFound), "late result must not replace the newer snapshot")
	assert.Equal(t, 3, svc.Status().Orders)
}

func TestDeleteOrderRefetches(t *testing.T) {
	backend := sampleBackend()
	svc := newDashboard(t, backend, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	require.NoError(t, svc.DeleteOrder(context.Background(), "o3"))
	assert.Equal(t, []string{"o3"}, backend.deleted)
	assert.Equal(t, 2, svc.Status().Orders)

	_, _, err := svc.Customer("c2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteOrderFailure(t *testing.T) {
	backend := sampleBackend()
	backend.deleteErr = errors.New("403")
	svc := newDashboard(t, backend, nil)

	err := svc.DeleteOrder(context.Background(), "o1")
	assert.True(t, errors.Is(err, ErrUpdateFailed))
}

func TestSummaryAndHeatmap(t *testing.T) {
	svc := newDashboard(t, sampleBackend(), nil)
	require.NoError(t, svc.Refresh(context.Background()))

	summary, _ := svc.Summary()
	assert.Equal(t, 2, summary.Orders)
	assert.Equal(t, 1, summary.CancelledOrders)
	assert.Equal(t, "400", summary.Revenue.String())
	assert.Equal(t, 1, summary.StockStatus[models.StockOut])

	heatmap, _ := svc.Heatmap()
	assert.Equal(t, 2, heatmap.Max)
}
