// Package ws implements the realtime broadcast hub: authenticated
// websocket connections tagged with a role, audience-filtered fan-out,
// a liveness sweep, and inbound batch-action dispatch.
package ws

import "time"

// Outbound event types.
const (
	EventConnectionEstablished = "connection_established"
	EventPong                  = "pong"
	EventBatchActionSuccess    = "batch_action_success"
	EventBatchActionError      = "batch_action_error"
	EventBatchCreated          = "batch_created"
	EventBatchStatusUpdated    = "batch_status_updated"
	EventBatchTimerUpdate      = "batch_timer_update"
	EventPlanCreated           = "production_plan_created"
	EventPlanStatusUpdated     = "production_plan_status_updated"
	EventPlanCompleted         = "production_plan_completed"
	EventEntryCreated          = "production_entry_created"
	EventError                 = "error"
)

// Inbound message types.
const (
	TypePing                 = "ping"
	TypeSubscribeBatchUpdate = "subscribe_batch_updates"
	TypeBatchAction          = "batch_action"
)

// Message is the JSON envelope exchanged with realtime clients. The
// timestamp is filled in at send time when absent.
type Message struct {
	Type      string     `json:"type"`
	Data      any        `json:"data,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// batchActionData is the payload of an inbound batch_action message.
type batchActionData struct {
	BatchID string `json:"batchId"`
	Action  struct {
		Action string `json:"action"`
	} `json:"action"`
}
