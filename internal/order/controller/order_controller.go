package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
	apperrors "samovar/internal/errors"
)

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*domain.Order, error)
}

type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type StatusChanger interface {
	ChangeStatus(ctx context.Context, id string, to domain.Status) (*domain.Order, error)
}

type OrderController struct {
	placeOrder PlaceOrderUseCase
	orders     OrderReader
	status     StatusChanger
	logger     *zap.Logger
}

func NewOrderController(placeOrder PlaceOrderUseCase, orders OrderReader, status StatusChanger, logger *zap.Logger) *OrderController {
	return &OrderController{
		placeOrder: placeOrder,
		orders:     orders,
		status:     status,
		logger:     logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.placeOrder.PlaceOrder(r.Context(), req)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := c.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		c.writeValidationError(w, "missing user_id", apperrors.ValidationDetail{
			Field:   "user_id",
			Message: "user_id query parameter is required",
		})
		return
	}

	orders, err := c.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderID")

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.status.ChangeStatus(r.Context(), orderID, domain.Status(req.Status))
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (c *OrderController) handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "an unexpected error occurred"})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func toOrderResponse(order *domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                order.ID,
		Status:            string(order.Status),
		TotalAmount:       order.TotalAmount,
		DeliveryType:      string(order.DeliveryType),
		DeliveryAddress:   order.DeliveryAddress,
		Notes:             order.Notes,
		Phone:             order.Phone,
		CustomerName:      order.CustomerName,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
		StatusChangedAt:   order.StatusChangedAt,
		AutoTransitionAt:  order.AutoTransitionAt,
		ScheduledDeletion: order.ScheduledDeletion,
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Notes:      item.Notes,
		})
	}

	return resp
}
