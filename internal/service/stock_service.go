package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/stockedit"
	"admin-dashboard/internal/util"

	"go.uber.org/zap"
)

const editLockTTL = 30 * time.Second

// ErrEditInProgress is returned when another replica holds the product's edit
var ErrEditInProgress = fmt.Errorf("%w: edit in progress elsewhere", stockedit.ErrInvalidTransition)

// AuditPublisher receives the dashboard's audit events
type AuditPublisher interface {
	PublishStockUpdated(ctx context.Context, event *models.StockUpdatedEvent) error
	PublishStockReverted(ctx context.Context, event *models.StockRevertedEvent) error
	PublishOutreachPrepared(ctx context.Context, event *models.OutreachPreparedEvent) error
}

// EditLocker serializes edits of one product across replicas
type EditLocker interface {
	AcquireEditLock(ctx context.Context, productID string, ttl time.Duration) (bool, error)
	ReleaseEditLock(ctx context.Context, productID string) error
}

// EditState is the edit state of one product as exposed to clients
type EditState struct {
	ProductID string          `json:"product_id"`
	State     stockedit.State `json:"state"`
}

// StockService applies stock and unit edits optimistically
type StockService struct {
	dashboard *DashboardService
	backend   Backend
	events    AuditPublisher
	locks     EditLocker
	edits     *stockedit.Registry
	logger    *zap.Logger
}

// NewStockService creates the service; events and locks may be nil
func NewStockService(dashboard *DashboardService, backend Backend, events AuditPublisher, locks EditLocker) *StockService {
	return &StockService{
		dashboard: dashboard,
		backend:   backend,
		events:    events,
		locks:     locks,
		edits:     stockedit.NewRegistry(),
		logger:    util.GetLogger(),
	}
}

// EditState reports where a product's edit stands
func (s *StockService) EditState(productID string) EditState {
	return EditState{ProductID: productID, State: s.edits.State(productID)}
}

// BeginEdit opens an edit on a product
func (s *StockService) BeginEdit(productID string) (EditState, error) {
	if _, err := s.dashboard.StockItem(productID); err != nil {
		return EditState{}, err
	}
	if err := s.edits.For(productID).Begin(); err != nil {
		return s.EditState(productID), err
	}
	return s.EditState(productID), nil
}

// CancelEdit abandons an open edit without touching the product
func (s *StockService) CancelEdit(productID string) (EditState, error) {
	if err := s.edits.For(productID).Cancel(); err != nil {
		return s.EditState(productID), err
	}
	return s.EditState(productID), nil
}

// Update applies the patch locally, then sends it to the backend. A rejected
// patch is never rolled back locally; the full snapshot is re-fetched instead.
func (s *StockService) Update(ctx context.Context, productID string, patch models.ProductPatch) (models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "StockService.Update")
	defer span.End()

	if err := validatePatch(&patch); err != nil {
		util.StockEditsTotal.WithLabelValues("rejected").Inc()
		return models.StockItem{}, err
	}
	if _, err := s.dashboard.StockItem(productID); err != nil {
		return models.StockItem{}, err
	}

	machine := s.edits.For(productID)
	if err := machine.Begin(); err != nil && machine.State() != stockedit.Editing {
		util.StockEditsTotal.WithLabelValues("rejected").Inc()
		return models.StockItem{}, err
	}
	if err := machine.Submit(); err != nil {
		util.StockEditsTotal.WithLabelValues("rejected").Inc()
		return models.StockItem{}, err
	}

	if s.locks != nil {
		ok, err := s.locks.AcquireEditLock(ctx, productID, editLockTTL)
		if err != nil {
			s.logger.Warn("Edit lock unavailable, continuing", zap.String("product_id", productID), zap.Error(err))
		} else if !ok {
			_ = machine.Fail()
			_ = machine.Resynced()
			util.StockEditsTotal.WithLabelValues("rejected").Inc()
			return models.StockItem{}, ErrEditInProgress
		} else {
			defer func() {
				if err := s.locks.ReleaseEditLock(context.WithoutCancel(ctx), productID); err != nil {
					s.logger.Warn("Failed to release edit lock", zap.String("product_id", productID), zap.Error(err))
				}
			}()
		}
	}

	previous, err := s.dashboard.applyLocal(productID, patch)
	if err != nil {
		_ = machine.Fail()
		_ = machine.Resynced()
		return models.StockItem{}, err
	}

	if err := s.backend.UpdateProduct(ctx, productID, patch); err != nil {
		return models.StockItem{}, s.revert(ctx, machine, productID, err)
	}

	if err := machine.Confirm(); err != nil {
		return models.StockItem{}, err
	}
	util.StockEditsTotal.WithLabelValues("saved").Inc()

	item, err := s.dashboard.StockItem(productID)
	if err != nil {
		return models.StockItem{}, err
	}

	s.logger.Info("Stock updated",
		zap.String("product_id", productID),
		zap.Int("stock", item.Stock),
		zap.String("unit", item.Unit))

	if s.events != nil {
		event := &models.StockUpdatedEvent{
			ProductID:     productID,
			PreviousStock: previous.Stock,
			Stock:         item.Stock,
			PreviousUnit:  previous.Unit,
			Unit:          item.Unit,
		}
		if err := s.events.PublishStockUpdated(ctx, event); err != nil {
			s.logger.Warn("Failed to publish stock update", zap.Error(err))
		}
	}
	return item, nil
}

func (s *StockService) revert(ctx context.Context, machine *stockedit.Machine, productID string, cause error) error {
	_ = machine.Fail()
	util.StockEditsTotal.WithLabelValues("reverted").Inc()

	s.logger.Warn("Stock update rejected, resynchronizing",
		zap.String("product_id", productID),
		zap.Error(cause))

	if err := s.dashboard.Refresh(ctx); err != nil {
		s.logger.Error("Resync after rejected update failed", zap.Error(err))
	}
	_ = machine.Resynced()

	if s.events != nil {
		event := &models.StockRevertedEvent{ProductID: productID, Reason: cause.Error()}
		if err := s.events.PublishStockReverted(ctx, event); err != nil {
			s.logger.Warn("Failed to publish stock revert", zap.Error(err))
		}
	}
	return fmt.Errorf("%w: product %s: %w", ErrUpdateFailed, productID, cause)
}

func validatePatch(patch *models.ProductPatch) error {
	if patch.Empty() {
		return fmt.Errorf("%w: patch needs stock or unit", ErrInvalidInput)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	if patch.Unit != nil {
		unit := strings.TrimSpace(*patch.Unit)
		if unit == "" {
			return fmt.Errorf("%w: unit must not be blank", ErrInvalidInput)
		}
		patch.Unit = &unit
	}
	return nil
}
