package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
	"samovar/internal/infrastructure/metrics"
	"samovar/internal/lifecycle"
)

const inspectionLimit = 10

type SweepRepository interface {
	ListPendingAutoTransitions(ctx context.Context, limit int) ([]domain.Order, error)
	ListScheduledDeletions(ctx context.Context, limit int) ([]domain.Order, error)
	ApplyAutoTransition(ctx context.Context, id string, directive lifecycle.TransitionDirective) (bool, error)
	SoftDelete(ctx context.Context, id string, now time.Time) (bool, error)
	Statistics(ctx context.Context) (dto.OrderStatistics, error)
	CleanupStatistics(ctx context.Context) (dto.CleanupStatistics, error)
}

// SweepService runs the daily lifecycle scans. Each order is an
// independent unit of work: a persistence failure on one row is
// logged, counted, and skipped, never aborting the rest of the scan.
// Eligibility is evaluated against a single "now" captured at scan
// start, not per-row read time.
type SweepService struct {
	repo    SweepRepository
	metrics *metrics.SweepMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewSweepService(repo SweepRepository, m *metrics.SweepMetrics, logger *zap.Logger) *SweepService {
	return &SweepService{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// AutoTransition promotes every pending order whose grace period has
// passed, then snapshots per-status counts.
func (s *SweepService) AutoTransition(ctx context.Context) (*dto.AutoTransitionResponse, error) {
	now := s.now()

	orders, err := s.repo.ListPendingAutoTransitions(ctx, 0)
	if err != nil {
		return nil, err
	}

	transitioned := 0
	for i := range orders {
		order := &orders[i]

		directive, ok := lifecycle.EvaluateAutoTransition(order, now)
		if !ok {
			continue
		}

		applied, err := s.repo.ApplyAutoTransition(ctx, order.ID, directive)
		if err != nil {
			s.metrics.Failures.WithLabelValues("transition").Inc()
			s.logger.Error("failed to apply auto-transition",
				zap.String("orderId", order.ID), zap.Error(err))
			continue
		}
		if applied {
			transitioned++
			s.metrics.Transitioned.Inc()
		}
	}

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		// The transitions already landed; report them with an empty
		// snapshot rather than failing the sweep.
		s.logger.Warn("failed to load order statistics", zap.Error(err))
		stats = dto.OrderStatistics{}
	} else {
		s.metrics.RecordStatistics(stats)
	}

	s.logger.Info("auto-transition sweep finished",
		zap.Int("eligible", len(orders)),
		zap.Int("transitioned", transitioned))

	return &dto.AutoTransitionResponse{
		Success:      true,
		Timestamp:    now,
		Transitioned: transitioned,
		Statistics:   stats,
	}, nil
}

// Cleanup soft-deletes every order past its scheduled deletion.
func (s *SweepService) Cleanup(ctx context.Context) (*dto.CleanupResponse, error) {
	now := s.now()

	orders, err := s.repo.ListScheduledDeletions(ctx, 0)
	if err != nil {
		return nil, err
	}

	cleaned := 0
	for i := range orders {
		order := &orders[i]

		if !lifecycle.EvaluateCleanup(order, now) {
			continue
		}

		applied, err := s.repo.SoftDelete(ctx, order.ID, now)
		if err != nil {
			s.metrics.Failures.WithLabelValues("cleanup").Inc()
			s.logger.Error("failed to soft-delete order",
				zap.String("orderId", order.ID), zap.Error(err))
			continue
		}
		if applied {
			cleaned++
			s.metrics.Cleaned.Inc()
		}
	}

	stats, err := s.repo.CleanupStatistics(ctx)
	if err != nil {
		s.logger.Warn("failed to load cleanup statistics", zap.Error(err))
		stats = dto.CleanupStatistics{}
	}

	s.logger.Info("cleanup sweep finished",
		zap.Int("eligible", len(orders)),
		zap.Int("cleaned", cleaned))

	return &dto.CleanupResponse{
		Success:    true,
		Timestamp:  now,
		Cleaned:    cleaned,
		Statistics: stats,
	}, nil
}

// UpcomingTransitions lists pending orders nearest their promotion
// horizon, for operator inspection. Read-only.
func (s *SweepService) UpcomingTransitions(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListPendingAutoTransitions(ctx, inspectionLimit)
}

// UpcomingDeletions lists orders nearest their deletion horizon.
// Read-only.
func (s *SweepService) UpcomingDeletions(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListScheduledDeletions(ctx, inspectionLimit)
}
