package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/queue"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/ws"
	"go.uber.org/zap"
)

// PlanService manages production plans: creation, listing, and manual
// status updates. Plan completion itself is owned by the batch
// lifecycle watcher.
type PlanService struct {
	plans       repository.PlanRepository
	products    repository.ProductRepository
	broadcaster Broadcaster
	publisher   queue.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewPlanService(
	plans repository.PlanRepository,
	products repository.ProductRepository,
	broadcaster Broadcaster,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*PlanService, error) {
	if plans == nil || products == nil {
		return nil, fmt.Errorf("plan service requires plan and product repositories")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PlanService{
		plans:       plans,
		products:    products,
		broadcaster: broadcaster,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (s *PlanService) Create(ctx context.Context, plan *domain.ProductionPlan) (*domain.ProductionPlan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan is required", domain.ErrValidation)
	}

	plan.ProductID = strings.TrimSpace(plan.ProductID)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, plan.ProductID)
	if err != nil {
		return nil, err
	}

	plan.ID = uuid.NewString()
	plan.Status = domain.PlanStatusPending
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	data := map[string]any{
		"planId":          plan.ID,
		"productId":       plan.ProductID,
		"productName":     product.Name,
		"plannedQuantity": plan.PlannedQuantity,
		"plannedDate":     plan.PlannedDate.UTC(),
		"status":          plan.Status.String(),
	}
	if plan.Shift != nil {
		data["shift"] = plan.Shift.String()
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToBatchOperators(ws.Message{Type: ws.EventPlanCreated, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventPlanCreated, data, s.now().UTC())

	return plan, nil
}

func (s *PlanService) GetByID(ctx context.Context, id string) (*domain.ProductionPlan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: plan id is required", domain.ErrValidation)
	}

	plan, err := s.plans.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrPlanNotFound
	}
	return plan, err
}

func (s *PlanService) List(ctx context.Context, filter repository.PlanFilter) ([]domain.ProductionPlan, error) {
	return s.plans.List(ctx, filter)
}

func (s *PlanService) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	if ctx == nil {
		ctx = context.Background()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: plan id is required", domain.ErrValidation)
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid plan status %q", domain.ErrValidation, status)
	}

	if err := s.plans.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPlanNotFound
		}
		return err
	}

	data := map[string]any{
		"planId": id,
		"status": status.String(),
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToBatchOperators(ws.Message{Type: ws.EventPlanStatusUpdated, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventPlanStatusUpdated, data, s.now().UTC())

	return nil
}
