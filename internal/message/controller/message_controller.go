package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
	apperrors "samovar/internal/errors"
)

type MessageWriter interface {
	Insert(ctx context.Context, message *domain.ContactMessage) error
}

type EventPublisher interface {
	Publish(ctx context.Context, exchange string, body []byte) error
}

type createMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// MessageController takes inbound contact messages. Creation is the
// second event source for the admin notification fan-out.
type MessageController struct {
	messages  MessageWriter
	publisher EventPublisher
	logger    *zap.Logger
}

func NewMessageController(messages MessageWriter, publisher EventPublisher, logger *zap.Logger) *MessageController {
	return &MessageController{
		messages:  messages,
		publisher: publisher,
		logger:    logger,
	}
}

func (c *MessageController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "request body must be valid JSON"})
		return
	}

	if err := validateMessage(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "VALIDATION_ERROR",
			"message": ve.Message,
			"details": ve.Details,
		})
		return
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	message := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     phone,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.messages.Insert(r.Context(), message); err != nil {
		logger.Error("failed to insert contact message", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "an unexpected error occurred"})
		return
	}

	c.publishCreated(r.Context(), message, logger)

	c.writeJSON(w, http.StatusCreated, map[string]string{"id": message.ID})
}

func validateMessage(req createMessageRequest) error {
	var details []apperrors.ValidationDetail

	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.Email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	}
	if req.Subject == "" {
		details = append(details, apperrors.ValidationDetail{Field: "subject", Message: "subject is required"})
	}
	if req.Message == "" {
		details = append(details, apperrors.ValidationDetail{Field: "message", Message: "message is required"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *MessageController) publishCreated(ctx context.Context, message *domain.ContactMessage, logger *zap.Logger) {
	if c.publisher == nil {
		return
	}

	event := dto.MessageCreatedEvent{
		ID:        message.ID,
		Name:      message.Name,
		Subject:   message.Subject,
		CreatedAt: message.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal message event", zap.Error(err))
		return
	}

	if err := c.publisher.Publish(ctx, dto.MessagesExchange, body); err != nil {
		logger.Warn("failed to publish message event", zap.String("messageId", message.ID), zap.Error(err))
	}
}

func (c *MessageController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
