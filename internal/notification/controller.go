package notification

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"samovar/internal/dto"
	apperrors "samovar/internal/errors"
)

// Controller serves the admin notification surface over SSE. The
// stream opens a session; the companion endpoints address it by the
// session id announced as the first stream event.
type Controller struct {
	manager *Manager
	logger  *zap.Logger
}

func NewController(manager *Manager, logger *zap.Logger) *Controller {
	return &Controller{manager: manager, logger: logger}
}

func (c *Controller) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "streaming unsupported"})
		return
	}

	session, err := c.manager.Open()
	if err != nil {
		c.logger.Error("failed to open notification session", zap.Error(err))
		c.writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "notification stream unavailable"})
		return
	}
	defer c.manager.Close(session.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: session\ndata: {\"session_id\":%q}\n\n", session.ID)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case update := <-session.Center.Updates():
			payload, err := json.Marshal(update)
			if err != nil {
				c.logger.Error("failed to marshal notification update", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		case cmd := <-session.Sounds():
			payload, err := json.Marshal(cmd)
			if err != nil {
				c.logger.Error("failed to marshal sound command", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: sound\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (c *Controller) Active(w http.ResponseWriter, r *http.Request) {
	session, err := c.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{
		"notifications": session.Center.Active(),
		"muted":         session.Center.Muted(),
	})
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

func (c *Controller) Mute(w http.ResponseWriter, r *http.Request) {
	session, err := c.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		c.handleError(w, err)
		return
	}

	var req muteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "request body must be valid JSON"})
		return
	}

	session.Center.SetMuted(req.Muted)
	c.writeJSON(w, http.StatusOK, map[string]bool{"muted": session.Center.Muted()})
}

func (c *Controller) Dismiss(w http.ResponseWriter, r *http.Request) {
	session, err := c.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		c.handleError(w, err)
		return
	}

	session.Center.Dismiss(chi.URLParam(r, "notificationID"))
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) handleError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "an unexpected error occurred"})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
