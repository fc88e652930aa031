package queue

import (
	"context"
	"testing"
	"time"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	valid := Event{
		ID:         "evt-1",
		Type:       "batch_status_updated",
		OccurredAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	testCases := []struct {
		name  string
		event Event
	}{
		{name: "missing id", event: Event{Type: "batch_created", OccurredAt: valid.OccurredAt}},
		{name: "missing type", event: Event{ID: "evt-2", OccurredAt: valid.OccurredAt}},
		{name: "missing timestamp", event: Event{ID: "evt-3", Type: "batch_created"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.event.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestPublishRejectsUninitializedPublisher(t *testing.T) {
	t.Parallel()

	var p *RabbitMQPublisher
	err := p.Publish(context.Background(), Event{ID: "evt-1", Type: "batch_created", OccurredAt: time.Now()})
	if err == nil {
		t.Fatal("expected error from nil publisher")
	}
}

func TestNewRabbitMQRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRabbitMQ("   "); err == nil {
		t.Fatal("expected error for blank url")
	}
}
