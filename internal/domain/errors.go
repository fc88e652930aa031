package domain

import "errors"

// Sentinel errors shared across services, repositories and transport.
// Callers match with errors.Is; the HTTP error handler maps them to
// status codes.
var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrPlanNotFound         = errors.New("production plan not found")
	ErrDuplicateBatchNumber = errors.New("batch number already exists for this production plan")
	ErrInvalidTransition    = errors.New("invalid batch action for current status")
	ErrUnknownAction        = errors.New("unknown batch action")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrEmailTaken           = errors.New("email already registered")
)
