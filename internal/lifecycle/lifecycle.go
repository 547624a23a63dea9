// Package lifecycle governs which workpaper status changes are allowed.
//
// The workflow moves forward only:
//
//	NotStarted -> InProgress -> ReadyToReview -> Complete -> Locked
//
// Any state may jump forward past intermediate states. The single backward
// move is ReadyToReview -> InProgress, used to send a workpaper back for
// corrections. Locked is terminal.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

var (
	// ErrTransitionNotAllowed is returned for a change the workflow forbids.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	// ErrUnknownStatus is returned when either side is not a lifecycle state.
	ErrUnknownStatus = errors.New("unknown status")
)

// Transition is a (from, to) pair of states.
type Transition struct {
	From models.Status
	To   models.Status
}

// Order lists the lifecycle states in forward order.
var Order = []models.Status{
	models.StatusNotStarted,
	models.StatusInProgress,
	models.StatusReadyToReview,
	models.StatusComplete,
	models.StatusLocked,
}

var allowed = map[Transition]struct{}{
	{models.StatusNotStarted, models.StatusInProgress}:    {},
	{models.StatusNotStarted, models.StatusReadyToReview}: {},
	{models.StatusNotStarted, models.StatusComplete}:      {},
	{models.StatusNotStarted, models.StatusLocked}:        {},

	{models.StatusInProgress, models.StatusReadyToReview}: {},
	{models.StatusInProgress, models.StatusComplete}:      {},
	{models.StatusInProgress, models.StatusLocked}:        {},

	{models.StatusReadyToReview, models.StatusInProgress}: {}, // sent back for corrections
	{models.StatusReadyToReview, models.StatusComplete}:   {},
	{models.StatusReadyToReview, models.StatusLocked}:     {},

	{models.StatusComplete, models.StatusLocked}: {},
}

// Known reports whether s is a lifecycle state.
func Known(s models.Status) bool {
	for _, state := range Order {
		if s == state {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving from one state to another is allowed.
func CanTransition(from, to models.Status) bool {
	_, ok := allowed[Transition{From: from, To: to}]
	return ok
}

// Check returns nil when the transition is allowed, ErrUnknownStatus when a
// state is not part of the lifecycle and ErrTransitionNotAllowed otherwise.
func Check(from, to models.Status) error {
	if !Known(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !Known(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// Targets returns the states reachable from s, in lifecycle order.
func Targets(s models.Status) []models.Status {
	targets := make([]models.Status, 0, len(Order))
	for _, to := range Order {
		if CanTransition(s, to) {
			targets = append(targets, to)
		}
	}
	return targets
}

// RequiresCleanDiagnostics reports whether moving into s is a review step
// that callers should refuse while blocking findings remain.
func RequiresCleanDiagnostics(s models.Status) bool {
	switch s {
	case models.StatusReadyToReview, models.StatusComplete, models.StatusLocked:
		return true
	default:
		return false
	}
}
