package domain

import "time"

// OrderItem is one product line within an order. UnitPrice is a
// snapshot taken at order time and never re-synced to the catalog.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  int64
	TotalPrice int64
	Notes      *string
	CreatedAt  time.Time
}
