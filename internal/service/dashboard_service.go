package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/report"
	"admin-dashboard/internal/util"
	"admin-dashboard/internal/view"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

var (
	// ErrFetchFailed wraps a failed orders or products fetch
	ErrFetchFailed = errors.New("fetch failed")
	// ErrUpdateFailed wraps a mutation the backend rejected
	ErrUpdateFailed = errors.New("update failed")
	// ErrNotFound is returned for an id absent from the current snapshot
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for a request that cannot be applied
	ErrInvalidInput = errors.New("invalid input")
)

// Backend is the remote REST collaborator that owns orders and products
type Backend interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, productID string, patch models.ProductPatch) error
	DeleteOrder(ctx context.Context, orderID string) error
}

// SnapshotCache keeps the last good snapshot across restarts
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// DashboardOptions tunes the read side
type DashboardOptions struct {
	PageSize int
	Locale   language.Tag
	Location *time.Location
	CacheTTL time.Duration
}

// Status describes how fresh the served snapshot is
type Status struct {
	Loaded    bool      `json:"loaded"`
	Source    string    `json:"source,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Stale     bool      `json:"stale"`
	LastError string    `json:"last_error,omitempty"`
	Orders    int       `json:"orders"`
	Products  int       `json:"products"`
	Customers int       `json:"customers"`
}

// Snapshot sources
const (
	SourceBackend = "backend"
	SourceCache   = "cache"
)

// derived is a snapshot together with everything computed from it
type derived struct {
	snapshot  models.Snapshot
	customers *report.Customers
	stock     []models.StockItem
}

func derive(snap models.Snapshot) *derived {
	return &derived{
		snapshot:  snap,
		customers: report.AggregateCustomers(snap.Orders),
		stock:     report.ReconcileStock(snap.Products, snap.Orders),
	}
}

// DashboardService holds the current snapshot and serves every read view
type DashboardService struct {
	backend Backend
	cache   SnapshotCache
	opts    DashboardOptions
	logger  *zap.Logger

	mu        sync.RWMutex
	current   *derived
	status    Status
	started   uint64
	committed uint64
}

// NewDashboardService creates the service; cache may be nil
func NewDashboardService(backend Backend, cache SnapshotCache, opts DashboardOptions) *DashboardService {
	if opts.PageSize < 1 {
		opts.PageSize = view.DefaultPageSize
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}

	return &DashboardService{
		backend: backend,
		cache:   cache,
		opts:    opts,
		logger:  util.GetLogger(),
		current: derive(models.Snapshot{}),
	}
}

// PageSize is the fixed page size of every paginated view
func (s *DashboardService) PageSize() int {
	return s.opts.PageSize
}

// Refresh fetches orders and products in parallel and, once both are in,
// replaces the snapshot. A refresh overtaken by a newer committed one is
// discarded. On failure the previous snapshot is kept and marked stale.
func (s *DashboardService) Refresh(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "DashboardService.Refresh")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SnapshotRefreshLatency.Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	s.started++
	gen := s.started
	s.mu.Unlock()

	var snap models.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.backend.ListOrders(gctx)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		snap.Orders = orders
		return nil
	})
	g.Go(func() error {
		products, err := s.backend.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		snap.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		s.fail(ctx, gen, err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	snap.FetchedAt = time.Now().UTC()
	next := derive(snap)

	if !s.commit(gen, next, SourceBackend) {
		util.SnapshotRefreshTotal.WithLabelValues("discarded").Inc()
		s.logger.Debug("Discarded superseded refresh", zap.Uint64("generation", gen))
		return nil
	}
	util.SnapshotRefreshTotal.WithLabelValues("ok").Inc()

	s.logger.Info("Snapshot refreshed",
		zap.Int("orders", len(snap.Orders)),
		zap.Int("products", len(snap.Products)),
		zap.Int("customers", next.customers.Len()))

	if s.cache != nil {
		if err := s.cache.SaveSnapshot(ctx, &snap, s.opts.CacheTTL); err != nil {
			s.logger.Warn("Failed to cache snapshot", zap.Error(err))
		}
	}
	return nil
}

// commit installs next unless a later generation already did
func (s *DashboardService) commit(gen uint64, next *derived, source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.committed {
		return false
	}
	s.committed = gen
	s.current = next
	s.status = Status{
		Loaded:    true,
		Source:    source,
		FetchedAt: next.snapshot.FetchedAt,
		Orders:    len(next.snapshot.Orders),
		Products:  len(next.snapshot.Products),
		Customers: next.customers.Len(),
	}
	s.publishGauges(next)
	util.SnapshotStale.Set(0)
	return true
}

func (s *DashboardService) fail(ctx context.Context, gen uint64, err error) {
	util.SnapshotRefreshTotal.WithLabelValues("failed").Inc()

	s.mu.RLock()
	superseded := gen < s.committed
	loaded := s.status.Loaded
	s.mu.RUnlock()

	if superseded {
		return
	}

	s.logger.Error("Snapshot refresh failed", zap.Uint64("generation", gen), zap.Error(err))

	if !loaded && s.cache != nil {
		cached, cacheErr := s.cache.LoadSnapshot(ctx)
		if cacheErr == nil {
			s.commit(gen, derive(*cached), SourceCache)
			s.logger.Info("Serving cached snapshot", zap.Time("fetched_at", cached.FetchedAt))
		} else {
			s.logger.Warn("No cached snapshot to fall back on", zap.Error(cacheErr))
		}
	}

	s.mu.Lock()
	if gen >= s.committed {
		s.status.Stale = true
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()
	util.SnapshotStale.Set(1)
}

func (s *DashboardService) publishGauges(d *derived) {
	util.AggregatedCustomers.Set(float64(d.customers.Len()))
	counts := map[string]int{models.StockOut: 0, models.StockLow: 0, models.StockGood: 0}
	for _, item := range d.stock {
		counts[item.Status]++
	}
	for status, n := range counts {
		util.StockItemsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

func (s *DashboardService) read() (*derived, Status) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.status
}

// Status reports snapshot freshness
func (s *DashboardService) Status() Status {
	_, status := s.read()
	return status
}

// Customers returns one page of the customer view
func (s *DashboardService) Customers(q view.CustomerQuery) (view.Page[models.CustomerAggregate], Status) {
	d, status := s.read()
	return view.Customers(d.customers.List(), q, s.opts.PageSize, s.opts.Locale), status
}

// Customer returns one aggregate including its purchase history
func (s *DashboardService) Customer(id string) (models.CustomerAggregate, Status, error) {
	d, status := s.read()
	agg, ok := d.customers.Get(id)
	if !ok {
		return models.CustomerAggregate{}, status, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	return agg, status, nil
}

// Stock returns one page of the stock view
func (s *DashboardService) Stock(q view.StockQuery) (view.Page[models.StockItem], Status) {
	d, status := s.read()
	return view.Stock(d.stock, q, s.opts.PageSize), status
}

// StockItem returns one reconciled product
func (s *DashboardService) StockItem(productID string) (models.StockItem, error) {
	d, _ := s.read()
	for _, item := range d.stock {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return models.StockItem{}, fmt.Errorf("%w: product %s", ErrNotFound, productID)
}

// Product returns the raw product record
func (s *DashboardService) Product(productID string) (models.Product, error) {
	d, _ := s.read()
	for _, p := range d.snapshot.Products {
		if p.ID == productID {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, productID)
}

// Summary returns the headline figures
func (s *DashboardService) Summary() (report.Summary, Status) {
	d, status := s.read()
	return report.Summarize(d.snapshot.Orders, d.customers, d.stock), status
}

// Heatmap returns order activity by weekday and hour
func (s *DashboardService) Heatmap() (report.Heatmap, Status) {
	d, status := s.read()
	return report.ActivityHeatmap(d.snapshot.Orders, s.opts.Location), status
}

// DeleteOrder deletes an order on the backend, then re-fetches everything
func (s *DashboardService) DeleteOrder(ctx context.Context, orderID string) error {
	ctx, span := util.StartSpan(ctx, "DashboardService.DeleteOrder")
	defer span.End()

	if err := s.backend.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("%w: delete order %s: %w", ErrUpdateFailed, orderID, err)
	}
	return s.Refresh(ctx)
}

// applyLocal patches one product in the current snapshot and re-derives
// the stock view. It returns the product as it was before.
func (s *DashboardService) applyLocal(productID string, patch models.ProductPatch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.snapshot
	idx := -1
	for i, p := range snap.Products {
		if p.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	products := make([]models.Product, len(snap.Products))
	copy(products, snap.Products)
	previous := products[idx]
	if patch.Stock != nil {
		products[idx].Stock = *patch.Stock
	}
	if patch.Unit != nil {
		products[idx].Unit = *patch.Unit
	}

	snap.Products = products
	// refreshes already in flight fetched the pre-edit products
	s.started++
	s.committed = s.started
	s.current = &derived{
		snapshot:  snap,
		customers: s.current.customers,
		stock:     report.ReconcileStock(products, snap.Orders),
	}
	return previous, nil
}
