package domain

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid order status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further automatic transition applies.
// Terminal orders remain eligible for scheduled deletion.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryPickup || d == DeliveryDelivery
}

// Order is a single customer purchase request. Amounts are whole
// currency units. Nullable columns are pointer-typed.
type Order struct {
	ID                string
	UserID            string
	Status            Status
	TotalAmount       int64
	DeliveryType      DeliveryType
	DeliveryAddress   *string
	Notes             *string
	Phone             *string
	CustomerName      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	StatusChangedAt   time.Time
	AutoTransitionAt  *time.Time
	ScheduledDeletion *time.Time
	DeletedAt         *time.Time
	Items             []OrderItem
}

func (o *Order) Deleted() bool {
	return o.DeletedAt != nil
}
