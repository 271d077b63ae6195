package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/errors"
	"samovar/internal/lifecycle"
)

type OrderLifecycleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateLifecycle(ctx context.Context, order *domain.Order) error
}

// StatusService applies manual operator status changes. Every change
// is validated against the allowed-transitions table, stamps
// status_changed_at, and recomputes the scheduled deletion from the
// new status, so moving an order out of a terminal status clears its
// deletion horizon.
type StatusService struct {
	repo   OrderLifecycleRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewStatusService(repo OrderLifecycleRepository, logger *zap.Logger) *StatusService {
	return &StatusService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *StatusService) ChangeStatus(ctx context.Context, id string, to domain.Status) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Deleted() {
		return nil, errors.NewConflictError("order is deleted")
	}

	if err := lifecycle.ValidateTransition(order.Status, to); err != nil {
		return nil, err
	}

	now := s.now()
	from := order.Status

	order.Status = to
	order.StatusChangedAt = now
	order.UpdatedAt = now
	order.ScheduledDeletion = lifecycle.ScheduledDeletionFor(to, now)
	// Leaving pending always drops the promotion horizon; pending
	// cannot be re-entered.
	order.AutoTransitionAt = nil

	if err := s.repo.UpdateLifecycle(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("orderId", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	return order, nil
}
