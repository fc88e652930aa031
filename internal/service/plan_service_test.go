package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/ws"
)

func TestPlanServiceCreateBroadcastsToOperators(t *testing.T) {
	t.Parallel()

	products := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Biscoito Amanteigado", Type: domain.ProductTypeAmanteigado}, nil
		},
	}
	var created *domain.ProductionPlan
	plans := &fakePlanRepo{
		createFn: func(ctx context.Context, p *domain.ProductionPlan) error {
			created = p
			return nil
		},
	}
	broadcaster := &fakeBroadcaster{}
	publisher := &fakePublisher{}

	svc, err := NewPlanService(plans, products, broadcaster, publisher, nil)
	if err != nil {
		t.Fatalf("NewPlanService() error = %v", err)
	}

	shift := domain.ShiftMorning
	plan, err := svc.Create(context.Background(), &domain.ProductionPlan{
		ProductID:       "prod-1",
		PlannedQuantity: 500,
		PlannedDate:     time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
		Shift:           &shift,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if plan.Status != domain.PlanStatusPending {
		t.Fatalf("status = %s, want PENDING", plan.Status)
	}
	if created == nil || created.ID == "" {
		t.Fatal("plan should be persisted with a generated id")
	}

	msgs := broadcaster.operatorMessages()
	if len(msgs) != 1 || msgs[0].Type != ws.EventPlanCreated {
		t.Fatalf("operator broadcasts = %v, want one %s", msgs, ws.EventPlanCreated)
	}
	data := msgs[0].Data.(map[string]any)
	if data["productName"] != "Biscoito Amanteigado" {
		t.Fatalf("productName = %v", data["productName"])
	}
	if len(publisher.published()) != 1 {
		t.Fatal("plan creation should publish one broker event")
	}
}

func TestPlanServiceCreateUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, err := NewPlanService(&fakePlanRepo{}, &fakeProductRepo{}, &fakeBroadcaster{}, &fakePublisher{}, nil)
	if err != nil {
		t.Fatalf("NewPlanService() error = %v", err)
	}

	_, err = svc.Create(context.Background(), &domain.ProductionPlan{
		ProductID:       "missing",
		PlannedQuantity: 10,
		PlannedDate:     time.Now(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestPlanServiceCreateInvalidPlan(t *testing.T) {
	t.Parallel()

	svc, err := NewPlanService(&fakePlanRepo{}, &fakeProductRepo{}, &fakeBroadcaster{}, &fakePublisher{}, nil)
	if err != nil {
		t.Fatalf("NewPlanService() error = %v", err)
	}

	_, err = svc.Create(context.Background(), &domain.ProductionPlan{ProductID: "prod-1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}
}

func TestPlanServiceUpdateStatus(t *testing.T) {
	t.Parallel()

	var gotStatus domain.PlanStatus
	plans := &fakePlanRepo{
		updateStatusFn: func(ctx context.Context, id string, status domain.PlanStatus) error {
			gotStatus = status
			return nil
		},
	}
	broadcaster := &fakeBroadcaster{}
	svc, err := NewPlanService(plans, &fakeProductRepo{}, broadcaster, &fakePublisher{}, nil)
	if err != nil {
		t.Fatalf("NewPlanService() error = %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), "plan-1", domain.PlanStatusInProgress); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if gotStatus != domain.PlanStatusInProgress {
		t.Fatalf("persisted status = %s, want IN_PROGRESS", gotStatus)
	}

	msgs := broadcaster.operatorMessages()
	if len(msgs) != 1 || msgs[0].Type != ws.EventPlanStatusUpdated {
		t.Fatalf("operator broadcasts = %v, want one %s", msgs, ws.EventPlanStatusUpdated)
	}
}

func TestPlanServiceUpdateStatusUnknownPlan(t *testing.T) {
	t.Parallel()

	plans := &fakePlanRepo{
		updateStatusFn: func(ctx context.Context, id string, status domain.PlanStatus) error {
			return domain.ErrNotFound
		},
	}
	broadcaster := &fakeBroadcaster{}
	svc, err := NewPlanService(plans, &fakeProductRepo{}, broadcaster, &fakePublisher{}, nil)
	if err != nil {
		t.Fatalf("NewPlanService() error = %v", err)
	}

	err = svc.UpdateStatus(context.Background(), "missing", domain.PlanStatusCompleted)
	if !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want ErrPlanNotFound", err)
	}
	if len(broadcaster.operatorMessages()) != 0 {
		t.Fatal("failed updates must not broadcast")
	}
}

func TestPlanServiceUpdateStatusInvalidStatus(t *testing.T) {
	t.Parallel()

	svc, err := NewPlanService(&fakePlanRepo{}, &fakeProductRepo{}, &fakeBroadcaster{}, &fakePublisher{}, nil)
	if err != nil {
		t.Fatalf("NewPlanService() error = %v", err)
	}

	err = svc.UpdateStatus(context.Background(), "plan-1", domain.PlanStatus("ARCHIVED"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("UpdateStatus() error = %v, want ErrValidation", err)
	}
}
