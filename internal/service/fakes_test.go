package service

import (
	"context"
	"sync"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/queue"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/ws"
)

type fakeBatchRepo struct {
	createFn         func(ctx context.Context, b *domain.Batch) error
	getByIDFn        func(ctx context.Context, id string) (*domain.Batch, error)
	updateFn         func(ctx context.Context, b *domain.Batch) error
	listByPlanFn     func(ctx context.Context, planID string) ([]domain.Batch, error)
	existsFn         func(ctx context.Context, planID string, batchNumber int) (bool, error)
	listInProgressFn func(ctx context.Context) ([]repository.InProgressBatchRow, error)
}

func (f *fakeBatchRepo) Create(ctx context.Context, b *domain.Batch) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, b)
}

func (f *fakeBatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeBatchRepo) Update(ctx context.Context, b *domain.Batch) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(ctx, b)
}

func (f *fakeBatchRepo) ListByPlan(ctx context.Context, planID string) ([]domain.Batch, error) {
	if f.listByPlanFn == nil {
		return nil, nil
	}
	return f.listByPlanFn(ctx, planID)
}

func (f *fakeBatchRepo) ExistsByPlanAndNumber(ctx context.Context, planID string, batchNumber int) (bool, error) {
	if f.existsFn == nil {
		return false, nil
	}
	return f.existsFn(ctx, planID, batchNumber)
}

func (f *fakeBatchRepo) ListInProgress(ctx context.Context) ([]repository.InProgressBatchRow, error) {
	if f.listInProgressFn == nil {
		return nil, nil
	}
	return f.listInProgressFn(ctx)
}

type fakePlanRepo struct {
	createFn        func(ctx context.Context, p *domain.ProductionPlan) error
	getByIDFn       func(ctx context.Context, id string) (*domain.ProductionPlan, error)
	listFn          func(ctx context.Context, filter repository.PlanFilter) ([]domain.ProductionPlan, error)
	updateStatusFn  func(ctx context.Context, id string, status domain.PlanStatus) error
	markCompletedFn func(ctx context.Context, id string) (bool, error)
}

func (f *fakePlanRepo) Create(ctx context.Context, p *domain.ProductionPlan) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, p)
}

func (f *fakePlanRepo) GetByID(ctx context.Context, id string) (*domain.ProductionPlan, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakePlanRepo) List(ctx context.Context, filter repository.PlanFilter) ([]domain.ProductionPlan, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, filter)
}

func (f *fakePlanRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	if f.updateStatusFn == nil {
		return nil
	}
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakePlanRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	if f.markCompletedFn == nil {
		return false, nil
	}
	return f.markCompletedFn(ctx, id)
}

type fakeProductRepo struct {
	createFn    func(ctx context.Context, p *domain.Product) error
	getByIDFn   func(ctx context.Context, id string) (*domain.Product, error)
	getByNameFn func(ctx context.Context, name string) (*domain.Product, error)
	listFn      func(ctx context.Context) ([]domain.Product, error)
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, p)
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	if f.getByNameFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByNameFn(ctx, name)
}

func (f *fakeProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

type fakeEntryRepo struct {
	createFn func(ctx context.Context, e *domain.ProductionEntry) error
	listFn   func(ctx context.Context, filter repository.EntryFilter) ([]domain.ProductionEntry, error)
}

func (f *fakeEntryRepo) Create(ctx context.Context, e *domain.ProductionEntry) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, e)
}

func (f *fakeEntryRepo) List(ctx context.Context, filter repository.EntryFilter) ([]domain.ProductionEntry, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, filter)
}

type fakeUserRepo struct {
	createFn     func(ctx context.Context, u *domain.User) error
	getByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, u)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getByEmailFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByEmailFn(ctx, email)
}

// fakeBroadcaster records which audience received which message.
type fakeBroadcaster struct {
	mu        sync.Mutex
	operators []ws.Message
	directors []ws.Message
}

func (f *fakeBroadcaster) BroadcastToBatchOperators(msg ws.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operators = append(f.operators, msg)
}

func (f *fakeBroadcaster) BroadcastToDirectors(msg ws.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directors = append(f.directors, msg)
}

func (f *fakeBroadcaster) operatorMessages() []ws.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ws.Message(nil), f.operators...)
}

func (f *fakeBroadcaster) directorMessages() []ws.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ws.Message(nil), f.directors...)
}

type fakePublisher struct {
	publishFn func(ctx context.Context, event queue.Event) error

	mu     sync.Mutex
	events []queue.Event
}

func (f *fakePublisher) Publish(ctx context.Context, event queue.Event) error {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	if f.publishFn == nil {
		return nil
	}
	return f.publishFn(ctx, event)
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published() []queue.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.Event(nil), f.events...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
