// Package lifecycle holds the order status rules: when a stale pending
// order is promoted automatically, when a terminal order falls due for
// soft deletion, and which manual status changes are permitted. All
// functions are pure; persistence of their directives belongs to the
// order services.
package lifecycle

import (
	"time"

	"samovar/internal/domain"
)

const (
	// PendingGracePeriod is how long an order may sit in pending
	// before the sweep promotes it to completed.
	PendingGracePeriod = 5 * 24 * time.Hour

	// CompletedRetention and CancelledRetention are the soft-delete
	// horizons measured from the moment a terminal status was entered.
	CompletedRetention = 30 * 24 * time.Hour
	CancelledRetention = 10 * 24 * time.Hour
)

// AutoTransitionAt computes the promotion horizon for a freshly
// created pending order.
func AutoTransitionAt(createdAt time.Time) time.Time {
	return createdAt.UTC().Add(PendingGracePeriod)
}

// ScheduledDeletionFor maps a status to its soft-delete horizon.
// Non-terminal statuses have none, so moving an order out of a
// terminal status clears any previously scheduled deletion.
func ScheduledDeletionFor(status domain.Status, statusChangedAt time.Time) *time.Time {
	var retention time.Duration
	switch status {
	case domain.StatusCompleted:
		retention = CompletedRetention
	case domain.StatusCancelled:
		retention = CancelledRetention
	default:
		return nil
	}
	horizon := statusChangedAt.UTC().Add(retention)
	return &horizon
}

// TransitionDirective describes the write the sweep must apply to
// promote a pending order. AutoTransitionAt is always cleared.
type TransitionDirective struct {
	Status            domain.Status
	StatusChangedAt   time.Time
	ScheduledDeletion *time.Time
}

// EvaluateAutoTransition decides whether a pending order has outlived
// its grace period. The pending-only and deleted guards make repeated
// application a no-op.
func EvaluateAutoTransition(order *domain.Order, now time.Time) (TransitionDirective, bool) {
	if order.Status != domain.StatusPending || order.Deleted() || order.AutoTransitionAt == nil {
		return TransitionDirective{}, false
	}
	if now.Before(*order.AutoTransitionAt) {
		return TransitionDirective{}, false
	}
	now = now.UTC()
	return TransitionDirective{
		Status:            domain.StatusCompleted,
		StatusChangedAt:   now,
		ScheduledDeletion: ScheduledDeletionFor(domain.StatusCompleted, now),
	}, true
}

// EvaluateCleanup decides whether an order's scheduled deletion has
// come due. Guarded by the deleted_at check, so re-runs are no-ops.
func EvaluateCleanup(order *domain.Order, now time.Time) bool {
	if order.Deleted() || order.ScheduledDeletion == nil {
		return false
	}
	return !now.Before(*order.ScheduledDeletion)
}
