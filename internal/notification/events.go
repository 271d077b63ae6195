package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"samovar/internal/dto"
)

type EventType string

const (
	EventOrder   EventType = "order"
	EventMessage EventType = "message"
)

// Event is one creation event from the change stream, normalized for
// display.
type Event struct {
	Type       EventType
	EntityID   string
	Title      string
	Body       string
	OccurredAt time.Time
}

func decodeOrderEvent(body []byte) (Event, error) {
	var evt dto.OrderCreatedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("decoding order event: %w", err)
	}

	return Event{
		Type:       EventOrder,
		EntityID:   evt.ID,
		Title:      "New order",
		Body:       fmt.Sprintf("%s - %d (%s)", evt.CustomerName, evt.TotalAmount, evt.DeliveryType),
		OccurredAt: evt.CreatedAt,
	}, nil
}

func decodeMessageEvent(body []byte) (Event, error) {
	var evt dto.MessageCreatedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("decoding message event: %w", err)
	}

	return Event{
		Type:       EventMessage,
		EntityID:   evt.ID,
		Title:      "New message",
		Body:       fmt.Sprintf("%s - %s", evt.Name, evt.Subject),
		OccurredAt: evt.CreatedAt,
	}, nil
}
