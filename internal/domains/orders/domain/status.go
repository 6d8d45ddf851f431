package domain

import (
	"errors"
	"fmt"
)

// Status enumerates order progression.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// transitions lists the only forward edges of the lifecycle.
var transitions = map[Status]Status{
	StatusNew:        StatusProcessing,
	StatusProcessing: StatusCompleted,
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusNew, StatusProcessing, StatusCompleted}
}

// ParseStatus decodes a transport value. Matching is exact.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusCompleted:
		return true
	default:
		return false
	}
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

func (s Status) String() string { return string(s) }

// InvalidTransitionError carries both ends of a rejected transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Invalid order status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidateTransition accepts NEW->PROCESSING and PROCESSING->COMPLETED only.
func ValidateTransition(current, requested Status) error {
	next, ok := transitions[current]
	if !ok || next != requested {
		return &InvalidTransitionError{From: current, To: requested}
	}
	return nil
}
