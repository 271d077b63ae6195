package controller

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
)

type SweepService interface {
	AutoTransition(ctx context.Context) (*dto.AutoTransitionResponse, error)
	Cleanup(ctx context.Context) (*dto.CleanupResponse, error)
	UpcomingTransitions(ctx context.Context) ([]domain.Order, error)
	UpcomingDeletions(ctx context.Context) ([]domain.Order, error)
}

// SweepController exposes the cron-facing lifecycle endpoints. The
// POST handlers mutate and sit behind the shared-secret middleware;
// the GET handlers are read-only inspection views.
type SweepController struct {
	sweep  SweepService
	logger *zap.Logger
	now    func() time.Time
}

func NewSweepController(sweep SweepService, logger *zap.Logger) *SweepController {
	return &SweepController{
		sweep:  sweep,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (c *SweepController) AutoTransition(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	result, err := c.sweep.AutoTransition(r.Context())
	if err != nil {
		logger.Error("auto-transition sweep failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to transition orders",
			Details: err.Error(),
		})
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *SweepController) AutoTransitionStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := c.sweep.UpcomingTransitions(r.Context())
	if err != nil {
		c.logger.Error("failed to fetch upcoming transitions", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to fetch orders",
			Details: err.Error(),
		})
		return
	}

	now := c.now()
	resp := dto.PendingTransitionsResponse{
		Success:                 true,
		OrdersPendingTransition: []dto.PendingTransition{},
		TotalPendingTransition:  len(orders),
	}

	for _, order := range orders {
		days := 0
		if order.AutoTransitionAt != nil {
			days = daysUntil(now, *order.AutoTransitionAt)
		}
		resp.OrdersPendingTransition = append(resp.OrdersPendingTransition, dto.PendingTransition{
			ID:                 order.ID,
			Status:             string(order.Status),
			CreatedAt:          order.CreatedAt,
			AutoTransitionAt:   order.AutoTransitionAt,
			DaysRemaining:      days,
			WillTransitionSoon: days <= 1,
		})
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *SweepController) Cleanup(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	result, err := c.sweep.Cleanup(r.Context())
	if err != nil {
		logger.Error("cleanup sweep failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to cleanup orders",
			Details: err.Error(),
		})
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *SweepController) CleanupStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := c.sweep.UpcomingDeletions(r.Context())
	if err != nil {
		c.logger.Error("failed to fetch upcoming deletions", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to fetch orders",
			Details: err.Error(),
		})
		return
	}

	now := c.now()
	resp := dto.PendingDeletionsResponse{
		Success:               true,
		OrdersPendingDeletion: []dto.PendingDeletion{},
		TotalPendingDeletion:  len(orders),
	}

	for _, order := range orders {
		days := 0
		if order.ScheduledDeletion != nil {
			days = daysUntil(now, *order.ScheduledDeletion)
		}
		resp.OrdersPendingDeletion = append(resp.OrdersPendingDeletion, dto.PendingDeletion{
			ID:                order.ID,
			Status:            string(order.Status),
			CreatedAt:         order.CreatedAt,
			ScheduledDeletion: order.ScheduledDeletion,
			DaysUntilDeletion: days,
		})
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *SweepController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

// daysUntil rounds up, so a horizon later today still counts as one
// day away.
func daysUntil(now, horizon time.Time) int {
	return int(math.Ceil(horizon.Sub(now).Hours() / 24))
}
