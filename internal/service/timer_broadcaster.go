package service

import (
	"context"
	"time"

	"github.com/sgmi/production-backend/internal/observability"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/ws"
	"go.uber.org/zap"
)

const defaultTimerSweepInterval = time.Second

// TimerBroadcaster periodically re-reads every IN_PROGRESS batch and
// pushes its elapsed running time to the operator audience. The sweep
// is independent of request traffic: timers keep moving on connected
// dashboards even when nobody touches a batch.
type TimerBroadcaster struct {
	batches     repository.BatchRepository
	broadcaster Broadcaster
	metrics     *observability.Metrics
	logger      *zap.Logger
	interval    time.Duration
	now         func() time.Time
}

func NewTimerBroadcaster(
	batches repository.BatchRepository,
	broadcaster Broadcaster,
	interval time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*TimerBroadcaster, error) {
	if interval <= 0 {
		interval = defaultTimerSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TimerBroadcaster{
		batches:     batches,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
		interval:    interval,
		now:         time.Now,
	}, nil
}

// Start runs the sweep loop until the context is cancelled.
func (t *TimerBroadcaster) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.sweep(ctx)
		}
	}
}

// sweep broadcasts one batch_timer_update per IN_PROGRESS batch. A
// read failure logs and skips the cycle; the next tick retries.
func (t *TimerBroadcaster) sweep(ctx context.Context) {
	rows, err := t.batches.ListInProgress(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		t.metrics.IncTimerSweepFailure()
		t.logger.Error("timer sweep: failed to read in-progress batches", zap.Error(err))
		return
	}

	now := t.now().UTC()
	for i := range rows {
		row := rows[i]

		elapsed := 0
		if row.StartTime != nil {
			elapsed = int(now.Sub(*row.StartTime).Seconds())
			if elapsed < 0 {
				elapsed = 0
			}
		}

		t.broadcaster.BroadcastToBatchOperators(ws.Message{
			Type: ws.EventBatchTimerUpdate,
			Data: map[string]any{
				"batchId":          row.BatchID,
				"batchNumber":      row.BatchNumber,
				"productionPlanId": row.ProductionPlanID,
				"productName":      row.ProductName,
				"status":           row.Status.String(),
				"elapsedSeconds":   elapsed,
			},
		})
	}
}
