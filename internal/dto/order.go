package dto

import "time"

type PlaceOrderRequest struct {
	UserID          string                `json:"user_id"`
	CustomerName    string                `json:"customer_name"`
	Phone           string                `json:"phone"`
	DeliveryType    string                `json:"delivery_type"`
	DeliveryAddress string                `json:"delivery_address,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	Items           []PlaceOrderItemInput `json:"items"`
}

type PlaceOrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  int64   `json:"unit_price"`
	TotalPrice int64   `json:"total_price"`
	Notes      *string `json:"notes"`
}

type OrderResponse struct {
	ID                string              `json:"id"`
	Status            string              `json:"status"`
	TotalAmount       int64               `json:"total_amount"`
	DeliveryType      string              `json:"delivery_type"`
	DeliveryAddress   *string             `json:"delivery_address"`
	Notes             *string             `json:"notes"`
	Phone             *string             `json:"phone"`
	CustomerName      *string             `json:"customer_name"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	StatusChangedAt   time.Time           `json:"status_changed_at"`
	AutoTransitionAt  *time.Time          `json:"auto_transition_at"`
	ScheduledDeletion *time.Time          `json:"scheduled_deletion"`
	Items             []OrderItemResponse `json:"items,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
