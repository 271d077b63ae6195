package domain

import "time"

// ContactMessage is an inbound customer message. Creation feeds the
// admin notification fan-out alongside new orders.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
