package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BatchStatus represents the lifecycle state of a production batch.
type BatchStatus string

const (
	BatchStatusPlanned    BatchStatus = "PLANNED"
	BatchStatusInProgress BatchStatus = "IN_PROGRESS"
	BatchStatusPaused     BatchStatus = "PAUSED"
	BatchStatusCompleted  BatchStatus = "COMPLETED"
	BatchStatusStopped    BatchStatus = "STOPPED"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusPlanned, BatchStatusInProgress, BatchStatusPaused, BatchStatusCompleted, BatchStatusStopped:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusStopped
}

// BatchAction is an operator command applied to a batch.
type BatchAction string

const (
	ActionStart    BatchAction = "start"
	ActionPause    BatchAction = "pause"
	ActionResume   BatchAction = "resume"
	ActionComplete BatchAction = "complete"
	ActionStop     BatchAction = "stop"
)

func (a BatchAction) String() string { return string(a) }

func (a BatchAction) IsValid() bool {
	switch a {
	case ActionStart, ActionPause, ActionResume, ActionComplete, ActionStop:
		return true
	}
	return false
}

func ParseBatchActionFromString(s string) (BatchAction, error) {
	a := BatchAction(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Batch is one production run of a product under a production plan.
type Batch struct {
	ID                   string
	ProductionPlanID     string
	BatchNumber          int
	Status               BatchStatus
	StartTime            *time.Time
	EndTime              *time.Time
	PausedAt             *time.Time
	PauseDurationMinutes int
	EstimatedKg          float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Apply mutates the batch according to the action transition table.
// On an illegal action for the current status it returns
// ErrInvalidTransition and leaves the batch untouched.
//
//	start    PLANNED              -> IN_PROGRESS  (sets StartTime)
//	pause    IN_PROGRESS          -> PAUSED       (sets PausedAt)
//	resume   PAUSED               -> IN_PROGRESS  (accumulates pause minutes)
//	complete IN_PROGRESS          -> COMPLETED    (sets EndTime)
//	stop     IN_PROGRESS | PAUSED -> STOPPED      (sets EndTime, closes open pause)
func (b *Batch) Apply(action BatchAction, now time.Time) error {
	switch action {
	case ActionStart:
		if b.Status != BatchStatusPlanned {
			return transitionError(action, b.Status)
		}
		b.Status = BatchStatusInProgress
		b.StartTime = &now

	case ActionPause:
		if b.Status != BatchStatusInProgress {
			return transitionError(action, b.Status)
		}
		b.Status = BatchStatusPaused
		b.PausedAt = &now

	case ActionResume:
		if b.Status != BatchStatusPaused {
			return transitionError(action, b.Status)
		}
		b.Status = BatchStatusInProgress
		b.closePauseInterval(now)

	case ActionComplete:
		if b.Status != BatchStatusInProgress {
			return transitionError(action, b.Status)
		}
		b.Status = BatchStatusCompleted
		b.EndTime = &now

	case ActionStop:
		if b.Status != BatchStatusInProgress && b.Status != BatchStatusPaused {
			return transitionError(action, b.Status)
		}
		if b.Status == BatchStatusPaused {
			b.closePauseInterval(now)
		}
		b.Status = BatchStatusStopped
		b.EndTime = &now

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	return nil
}

// closePauseInterval adds the open pause interval, rounded to the
// nearest whole minute, to the accumulated pause duration.
func (b *Batch) closePauseInterval(now time.Time) {
	if b.PausedAt == nil {
		return
	}
	minutes := int(math.Round(now.Sub(*b.PausedAt).Minutes()))
	if minutes > 0 {
		b.PauseDurationMinutes += minutes
	}
	b.PausedAt = nil
}

func transitionError(action BatchAction, status BatchStatus) error {
	return fmt.Errorf("%w: cannot %s batch in %s status", ErrInvalidTransition, action, status)
}
