package queue

import (
	"fmt"
	"strings"
	"time"
)

// Event is the broker payload mirroring a realtime broadcast. Type
// matches the websocket event type (batch_created, batch_status_updated,
// production_plan_completed, ...).
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(e.Type) == "" {
		return fmt.Errorf("event type is required")
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("event timestamp is required")
	}
	return nil
}
