package dto

import "time"

// Exchange and queue names for the change-event stream. Creation
// events are published to a fanout exchange per entity type; the
// notification hub consumes the bound queues.
const (
	OrdersExchange = "orders_fanout"
	OrdersQueue    = "orders_notifications"

	MessagesExchange = "messages_fanout"
	MessagesQueue    = "messages_notifications"
)

type OrderCreatedEvent struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  int64     `json:"total_amount"`
	DeliveryType string    `json:"delivery_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type MessageCreatedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}
