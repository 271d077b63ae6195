package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samovar/internal/domain"
)

func TestAutoTransitionAt(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	horizon := AutoTransitionAt(createdAt)

	assert.Equal(t, createdAt.Add(5*24*time.Hour), horizon)
}

func TestScheduledDeletionFor_Completed(t *testing.T) {
	changedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	horizon := ScheduledDeletionFor(domain.StatusCompleted, changedAt)

	require.NotNil(t, horizon)
	assert.Equal(t, changedAt.Add(30*24*time.Hour), *horizon)
}

func TestScheduledDeletionFor_Cancelled(t *testing.T) {
	changedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	horizon := ScheduledDeletionFor(domain.StatusCancelled, changedAt)

	require.NotNil(t, horizon)
	assert.Equal(t, changedAt.Add(10*24*time.Hour), *horizon)
}

func TestScheduledDeletionFor_NonTerminalStatuses(t *testing.T) {
	changedAt := time.Now().UTC()

	for _, status := range []domain.Status{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusPreparing,
		domain.StatusReady,
	} {
		assert.Nil(t, ScheduledDeletionFor(status, changedAt), "status %s", status)
	}
}

func pendingOrder(createdAt time.Time) *domain.Order {
	horizon := AutoTransitionAt(createdAt)
	return &domain.Order{
		ID:               "order-1",
		Status:           domain.StatusPending,
		CreatedAt:        createdAt,
		StatusChangedAt:  createdAt,
		AutoTransitionAt: &horizon,
	}
}

func TestEvaluateAutoTransition_BeforeHorizon(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order := pendingOrder(createdAt)

	// One hour short of the five-day grace period.
	_, ok := EvaluateAutoTransition(order, createdAt.Add(5*24*time.Hour-time.Hour))

	assert.False(t, ok)
}

func TestEvaluateAutoTransition_PastHorizon(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order := pendingOrder(createdAt)
	now := createdAt.Add(5*24*time.Hour + time.Minute)

	directive, ok := EvaluateAutoTransition(order, now)

	require.True(t, ok)
	assert.Equal(t, domain.StatusCompleted, directive.Status)
	assert.Equal(t, now, directive.StatusChangedAt)
	require.NotNil(t, directive.ScheduledDeletion)
	assert.Equal(t, now.Add(30*24*time.Hour), *directive.ScheduledDeletion)
}

func TestEvaluateAutoTransition_ExactlyAtHorizon(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order := pendingOrder(createdAt)

	_, ok := EvaluateAutoTransition(order, *order.AutoTransitionAt)

	assert.True(t, ok)
}

func TestEvaluateAutoTransition_NonPendingIsNoOp(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order := pendingOrder(createdAt)
	order.Status = domain.StatusCompleted
	order.AutoTransitionAt = nil

	_, ok := EvaluateAutoTransition(order, createdAt.Add(100*24*time.Hour))

	assert.False(t, ok)
}

func TestEvaluateAutoTransition_DeletedIsNoOp(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order := pendingOrder(createdAt)
	deletedAt := createdAt.Add(time.Hour)
	order.DeletedAt = &deletedAt

	_, ok := EvaluateAutoTransition(order, createdAt.Add(10*24*time.Hour))

	assert.False(t, ok)
}

func TestEvaluateAutoTransition_NoHorizonIsNoOp(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order := pendingOrder(createdAt)
	order.AutoTransitionAt = nil

	_, ok := EvaluateAutoTransition(order, createdAt.Add(10*24*time.Hour))

	assert.False(t, ok)
}

func TestEvaluateCleanup_PastHorizon(t *testing.T) {
	changedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	horizon := changedAt.Add(10 * 24 * time.Hour)
	order := &domain.Order{
		ID:                "order-1",
		Status:            domain.StatusCancelled,
		StatusChangedAt:   changedAt,
		ScheduledDeletion: &horizon,
	}

	assert.False(t, EvaluateCleanup(order, horizon.Add(-time.Minute)))
	assert.True(t, EvaluateCleanup(order, horizon))
	assert.True(t, EvaluateCleanup(order, horizon.Add(time.Minute)))
}

func TestEvaluateCleanup_NoHorizon(t *testing.T) {
	order := &domain.Order{
		ID:     "order-1",
		Status: domain.StatusPreparing,
	}

	assert.False(t, EvaluateCleanup(order, time.Now().UTC()))
}

func TestEvaluateCleanup_AlreadyDeletedIsNoOp(t *testing.T) {
	changedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	horizon := changedAt.Add(10 * 24 * time.Hour)
	deletedAt := horizon.Add(time.Hour)
	order := &domain.Order{
		ID:                "order-1",
		Status:            domain.StatusCancelled,
		ScheduledDeletion: &horizon,
		DeletedAt:         &deletedAt,
	}

	assert.False(t, EvaluateCleanup(order, horizon.Add(48*time.Hour)))
}
