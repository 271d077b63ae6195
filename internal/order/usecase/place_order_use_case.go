package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
	apperrors "samovar/internal/errors"
)

const maxRetryAttempts = 3

type CheckoutService interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*domain.Order, error)
}

// PlaceOrderUseCase validates a checkout request and drives the
// checkout transaction, retrying on MySQL deadlocks with a jittered
// backoff.
type PlaceOrderUseCase struct {
	checkout CheckoutService
	logger   *zap.Logger
}

func NewPlaceOrderUseCase(checkout CheckoutService, logger *zap.Logger) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		checkout: checkout,
		logger:   logger,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*domain.Order, error) {
	if err := validatePlaceOrderRequest(req); err != nil {
		return nil, err
	}

	uc.logger.Info("checkout started",
		zap.String("userId", req.UserID),
		zap.Int("itemCount", len(req.Items)),
		zap.String("deliveryType", req.DeliveryType))

	// Backoff intervals per retry attempt.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		order, err := uc.checkout.PlaceOrder(ctx, req)
		if err == nil {
			return order, nil
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < maxRetryAttempts {
			jitter := time.Duration(float64(backoffs[attempt-1]) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("deadlock detected, retrying checkout",
				zap.Int("attempt", attempt), zap.Int("maxAttempts", maxRetryAttempts))
		}
	}

	return nil, apperrors.NewConflictError("checkout failed after retries, please try again")
}

func validatePlaceOrderRequest(req dto.PlaceOrderRequest) error {
	var details []apperrors.ValidationDetail

	if req.UserID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if req.CustomerName == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer_name",
			Message: "customer_name is required",
		})
	}

	if req.Phone == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "phone",
			Message: "phone is required",
		})
	}

	deliveryType := domain.DeliveryType(req.DeliveryType)
	if !deliveryType.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "delivery_type",
			Message: "delivery_type must be pickup or delivery",
		})
	}

	if deliveryType == domain.DeliveryDelivery && req.DeliveryAddress == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "delivery_address",
			Message: "delivery_address is required for delivery orders",
		})
	}

	if deliveryType == domain.DeliveryPickup && req.DeliveryAddress != "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "delivery_address",
			Message: "delivery_address must be empty for pickup orders",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > 100 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	for idx, item := range req.Items {
		field := "items[" + strconv.Itoa(idx) + "]"

		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".product_id",
				Message: "product_id is required",
			})
		}

		if item.Quantity < 1 || item.Quantity > 100 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".quantity",
				Message: "quantity must be between 1 and 100",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
