package service

import (
	"context"
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

// EntryService records manually logged production quantities outside
// the batch workflow.
type EntryService struct {
	entries     repository.EntryRepository
	products    repository.ProductRepository
	broadcaster Broadcaster
	publisher   queue.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewEntryService(
	entries repository.EntryRepository,
	products repository.ProductRepository,
	broadcaster Broadcaster,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*EntryService, error) {
	if entries == nil || products == nil {
		return nil, fmt.Errorf("entry service requires entry and product repositories")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EntryService{
		entries:     entries,
		products:    products,
		broadcaster: broadcaster,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (s *EntryService) Create(ctx context.Context, entry *domain.ProductionEntry) (*domain.ProductionEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: entry is required", domain.ErrValidation)
	}

	entry.ProductID = strings.TrimSpace(entry.ProductID)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, entry.ProductID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	data := map[string]any{
		"entryId":     entry.ID,
		"productId":   entry.ProductID,
		"productName": product.Name,
		"quantity":    entry.Quantity,
		"shift":       entry.Shift.String(),
	}
	if entry.DurationMinutes != nil {
		data["durationMinutes"] = *entry.DurationMinutes
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToDirectors(ws.Message{Type: ws.EventEntryCreated, Data: data})
	}
	publishEvent(ctx, s.publisher, s.logger, ws.EventEntryCreated, data, s.now().UTC())

	return entry, nil
}

func (s *EntryService) List(ctx context.Context, filter repository.EntryFilter) ([]domain.ProductionEntry, error) {
	return s.entries.List(ctx, filter)
}
