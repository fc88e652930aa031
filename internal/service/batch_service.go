package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/observability"
	"github.com/sgmi/production-backend/internal/queue"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/ws"
	"go.uber.org/zap"
)

// BatchService drives the batch lifecycle: creation, action
// transitions, and the plan completion watcher that fires after a
// batch completes. It satisfies ws.BatchActioner for the realtime
// batch_action path.
type BatchService struct {
	batches     repository.BatchRepository
	plans       repository.PlanRepository
	products    repository.ProductRepository
	broadcaster Broadcaster
	publisher   queue.Publisher
	metrics     *observability.Metrics
	logger      *zap.Logger
	locks       *keyedMutex
	now         func() time.Time
}

// CreateBatchInput creates a batch in PLANNED state under an existing
// plan. EstimatedKg takes precedence when set; otherwise the weight is
// derived from the plan's product type and BatchCount (default 1).
type CreateBatchInput struct {
	ProductionPlanID string
	BatchNumber      int
	EstimatedKg      *float64
	BatchCount       *int
}

// RetroactiveBatchInput logs a production run that already happened:
// a COMPLETED plan plus a single COMPLETED batch with a back-dated
// start time.
type RetroactiveBatchInput struct {
	ProductName     string
	Shift           domain.Shift
	PlannedDate     time.Time
	BatchCount      int
	DurationMinutes int
}

func NewBatchService(
	batches repository.BatchRepository,
	plans repository.PlanRepository,
	products repository.ProductRepository,
	broadcaster Broadcaster,
	publisher queue.Publisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*BatchService, error) {
	if batches == nil || plans == nil || products == nil {
		return nil, fmt.Errorf("batch service requires batch, plan and product repositories")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BatchService{
		batches:     batches,
		plans:       plans,
		products:    products,
		broadcaster: broadcaster,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		locks:       newKeyedMutex(),
		now:         time.Now,
	}, nil
}

func (s *BatchService) Create(ctx context.Context, input CreateBatchInput) (*domain.Batch, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	planID := strings.TrimSpace(input.ProductionPlanID)
	if planID == "" {
		return nil, fmt.Errorf("%w: production plan id is required", domain.ErrValidation)
	}
	if input.BatchNumber <= 0 {
		return nil, fmt.Errorf("%w: batch number must be positive", domain.ErrValidation)
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.batches.ExistsByPlanAndNumber(ctx, planID, input.BatchNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateBatchNumber
	}

	estimatedKg, err := s.resolveEstimatedKg(ctx, plan, input)
	if err != nil {
		return nil, err
	}

	batch := &domain.Batch{
		ID:               uuid.NewString(),
		ProductionPlanID: planID,
		BatchNumber:      input.BatchNumber,
		Status:           domain.BatchStatusPlanned,
		EstimatedKg:      estimatedKg,
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	data := map[string]any{
		"batchId":          batch.ID,
		"productionPlanId": batch.ProductionPlanID,
		"batchNumber":      batch.BatchNumber,
		"status":           batch.Status.String(),
		"estimatedKg":      batch.EstimatedKg,
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToBatchOperators(ws.Message{Type: ws.EventBatchCreated, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventBatchCreated, data, now)

	return batch, nil
}

// PerformAction applies a lifecycle action to a batch. Actions on the
// same batch id are serialized; legal transitions persist, broadcast
// batch_status_updated to the operator audience, and on completion
// invoke the plan completion watcher.
func (s *BatchService) PerformAction(ctx context.Context, batchID string, action domain.BatchAction) error {
	if ctx == nil {
		ctx = context.Background()
	}

	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return fmt.Errorf("%w: batch id is required", domain.ErrValidation)
	}
	if !action.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}

	unlock := s.locks.Lock(batchID)
	defer unlock()

	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		s.metrics.IncBatchAction(action.String(), "error")
		return err
	}

	if err := batch.Apply(action, s.now().UTC()); err != nil {
		s.metrics.IncBatchAction(action.String(), "rejected")
		return err
	}

	if err := s.batches.Update(ctx, batch); err != nil {
		s.metrics.IncBatchAction(action.String(), "error")
		return err
	}
	s.metrics.IncBatchAction(action.String(), "success")

	now := s.now().UTC()
	data := map[string]any{
		"batchId":              batch.ID,
		"productionPlanId":     batch.ProductionPlanID,
		"batchNumber":          batch.BatchNumber,
		"status":               batch.Status.String(),
		"pauseDurationMinutes": batch.PauseDurationMinutes,
	}
	if batch.StartTime != nil {
		data["startTime"] = batch.StartTime.UTC()
	}
	if batch.EndTime != nil {
		data["endTime"] = batch.EndTime.UTC()
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToBatchOperators(ws.Message{Type: ws.EventBatchStatusUpdated, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventBatchStatusUpdated, data, now)

	if batch.Status == domain.BatchStatusCompleted {
		s.completePlanIfDone(ctx, batch.ProductionPlanID)
	}

	return nil
}

func (s *BatchService) GetStatus(ctx context.Context, batchID string) (*domain.Batch, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, fmt.Errorf("%w: batch id is required", domain.ErrValidation)
	}
	return s.batches.GetByID(ctx, batchID)
}

func (s *BatchService) ListByPlan(ctx context.Context, planID string) ([]domain.Batch, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil, fmt.Errorf("%w: production plan id is required", domain.ErrValidation)
	}
	return s.batches.ListByPlan(ctx, planID)
}

// CreateRetroactive logs an already-finished production run. The plan
// and its single batch land directly in COMPLETED; the batch start
// time is back-dated by the reported duration.
func (s *BatchService) CreateRetroactive(ctx context.Context, input RetroactiveBatchInput) (*domain.Batch, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	if !input.Shift.IsValid() {
		return nil, fmt.Errorf("%w: invalid shift %q", domain.ErrValidation, input.Shift)
	}
	if input.PlannedDate.IsZero() {
		return nil, fmt.Errorf("%w: planned date is required", domain.ErrValidation)
	}
	if input.BatchCount <= 0 {
		return nil, fmt.Errorf("%w: batch count must be positive", domain.ErrValidation)
	}
	if input.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrValidation)
	}

	product, err := s.products.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	estimatedKg, err := domain.EstimateKgFromBatches(product.Type, input.BatchCount)
	if err != nil {
		return nil, err
	}

	shift := input.Shift
	plan := &domain.ProductionPlan{
		ID:              uuid.NewString(),
		ProductID:       product.ID,
		PlannedQuantity: estimatedKg,
		PlannedDate:     input.PlannedDate,
		Shift:           &shift,
		Status:          domain.PlanStatusCompleted,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	end := s.now().UTC()
	start := end.Add(-time.Duration(input.DurationMinutes) * time.Minute)
	batch := &domain.Batch{
		ID:               uuid.NewString(),
		ProductionPlanID: plan.ID,
		BatchNumber:      1,
		Status:           domain.BatchStatusCompleted,
		StartTime:        &start,
		EndTime:          &end,
		EstimatedKg:      estimatedKg,
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, err
	}

	data := map[string]any{
		"batchId":          batch.ID,
		"productionPlanId": plan.ID,
		"batchNumber":      batch.BatchNumber,
		"status":           batch.Status.String(),
		"estimatedKg":      batch.EstimatedKg,
		"productName":      product.Name,
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToBatchOperators(ws.Message{Type: ws.EventBatchCreated, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventBatchCreated, data, end)

	return batch, nil
}

func (s *BatchService) resolveEstimatedKg(ctx context.Context, plan *domain.ProductionPlan, input CreateBatchInput) (float64, error) {
	if input.EstimatedKg != nil {
		if *input.EstimatedKg < 0 {
			return 0, fmt.Errorf("%w: estimated kg must be non-negative", domain.ErrValidation)
		}
		return *input.EstimatedKg, nil
	}

	count := 1
	if input.BatchCount != nil {
		count = *input.BatchCount
	}
	if count <= 0 {
		return 0, fmt.Errorf("%w: batch count must be positive", domain.ErrValidation)
	}

	product, err := s.products.GetByID(ctx, plan.ProductID)
	if err != nil {
		return 0, err
	}
	return domain.EstimateKgFromBatches(product.Type, count)
}

// completePlanIfDone is the plan completion watcher. It re-reads the
// plan's batches after a completion and, when every one of them is
// COMPLETED, flips the plan exactly once (RowsAffected gate) and
// notifies the director audience. Every failure here is logged and
// swallowed: the originating batch completion already succeeded.
func (s *BatchService) completePlanIfDone(ctx context.Context, planID string) {
	batches, err := s.batches.ListByPlan(ctx, planID)
	if err != nil {
		s.logger.Error("completion watcher: failed to list plan batches",
			zap.String("planId", planID),
			zap.Error(err),
		)
		return
	}
	if len(batches) == 0 {
		return
	}
	for i := range batches {
		if batches[i].Status != domain.BatchStatusCompleted {
			return
		}
	}

	completed, err := s.plans.MarkCompleted(ctx, planID)
	if err != nil {
		s.logger.Error("completion watcher: failed to mark plan completed",
			zap.String("planId", planID),
			zap.Error(err),
		)
		return
	}
	if !completed {
		// Another completion already flipped the plan.
		return
	}

	data := map[string]any{
		"planId":       planID,
		"totalBatches": len(batches),
	}
	if plan, err := s.plans.GetByID(ctx, planID); err == nil {
		data["plannedDate"] = plan.PlannedDate.UTC()
		if plan.Shift != nil {
			data["shift"] = plan.Shift.String()
		}
		if product, err := s.products.GetByID(ctx, plan.ProductID); err == nil {
			data["productName"] = product.Name
		} else {
			s.logger.Warn("completion watcher: failed to load product",
				zap.String("planId", planID),
				zap.Error(err),
			)
		}
	} else {
		s.logger.Warn("completion watcher: failed to reload plan",
			zap.String("planId", planID),
			zap.Error(err),
		)
	}

	s.logger.Info("production plan completed",
		zap.String("planId", planID),
		zap.Int("totalBatches", len(batches)),
	)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToDirectors(ws.Message{Type: ws.EventPlanCompleted, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventPlanCompleted, data, s.now().UTC())
}
