package worker

import (
	"context"
	"errors"
	"time"

	"admin-dashboard/internal/broker"
	"admin-dashboard/internal/models"
	"admin-dashboard/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Refresher re-fetches the dashboard snapshot
type Refresher interface {
	Refresh(ctx context.Context) error
}

// MessageSource delivers backend change messages
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// SyncWorker re-fetches the snapshot when the backend announces a change.
// Bursts of changes collapse into one refresh.
type SyncWorker struct {
	source       MessageSource
	refresher    Refresher
	eventHandler *broker.EventHandler
	pending      chan struct{}
	settle       time.Duration
	logger       *zap.Logger
}

// NewSyncWorker creates a worker; settle is how long to wait for more
// changes before refreshing
func NewSyncWorker(source MessageSource, refresher Refresher, settle time.Duration) *SyncWorker {
	w := &SyncWorker{
		source:       source,
		refresher:    refresher,
		eventHandler: broker.NewEventHandler(),
		pending:      make(chan struct{}, 1),
		settle:       settle,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnOrderChange(w.onChange)
	w.eventHandler.OnProductChange(w.onChange)
	return w
}

func (w *SyncWorker) onChange(_ context.Context, event *models.BackendChangeEvent) error {
	w.logger.Debug("Backend change received",
		zap.String("type", event.EventType),
		zap.String("entity_id", event.EntityID))
	w.Notify()
	return nil
}

// Notify schedules a refresh unless one is already pending
func (w *SyncWorker) Notify() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

// HandleMessage routes one raw message
func (w *SyncWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

// Start consumes until ctx is cancelled
func (w *SyncWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sync worker")
	go w.Run(ctx)
	return w.source.StartConsuming(ctx, w.HandleMessage)
}

// Run performs pending refreshes until ctx is cancelled
func (w *SyncWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
		}

		if w.settle > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.settle):
			}
			select {
			case <-w.pending:
			default:
			}
		}

		if err := w.refresher.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Warn("Change-triggered refresh failed", zap.Error(err))
		}
	}
}

// Stop stops the worker
func (w *SyncWorker) Stop() error {
	w.logger.Info("Stopping sync worker")
	return w.source.Close()
}

// Tick schedules a refresh every interval until ctx is cancelled
func (w *SyncWorker) Tick(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Notify()
		}
	}
}
