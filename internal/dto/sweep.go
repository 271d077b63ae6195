package dto

import "time"

// OrderStatistics is the per-status snapshot reported after an
// auto-transition sweep.
type OrderStatistics struct {
	PendingCount   int `json:"pending_count"`
	ConfirmedCount int `json:"confirmed_count"`
	PreparingCount int `json:"preparing_count"`
	ReadyCount     int `json:"ready_count"`
	CompletedCount int `json:"completed_count"`
	CancelledCount int `json:"cancelled_count"`
	DeletedCount   int `json:"deleted_count"`
	TotalCount     int `json:"total_count"`
}

// CleanupStatistics is the snapshot reported after a cleanup sweep.
type CleanupStatistics struct {
	TotalOrders   int `json:"total_orders"`
	DeletedOrders int `json:"deleted_orders"`
	ActiveOrders  int `json:"active_orders"`
}

type AutoTransitionResponse struct {
	Success      bool            `json:"success"`
	Timestamp    time.Time       `json:"timestamp"`
	Transitioned int             `json:"transitioned"`
	Statistics   OrderStatistics `json:"statistics"`
}

type CleanupResponse struct {
	Success    bool              `json:"success"`
	Timestamp  time.Time         `json:"timestamp"`
	Cleaned    int               `json:"cleaned"`
	Statistics CleanupStatistics `json:"statistics"`
}

// PendingTransition annotates an order approaching its promotion
// horizon, for the read-only inspection endpoint.
type PendingTransition struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	AutoTransitionAt   *time.Time `json:"auto_transition_at"`
	DaysRemaining      int        `json:"days_remaining"`
	WillTransitionSoon bool       `json:"will_transition_soon"`
}

type PendingTransitionsResponse struct {
	Success                 bool                `json:"success"`
	OrdersPendingTransition []PendingTransition `json:"orders_pending_transition"`
	TotalPendingTransition  int                 `json:"total_pending_transition"`
}

// PendingDeletion annotates an order approaching its soft-delete
// horizon.
type PendingDeletion struct {
	ID                string     `json:"id"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	ScheduledDeletion *time.Time `json:"scheduled_deletion"`
	DaysUntilDeletion int        `json:"days_until_deletion"`
}

type PendingDeletionsResponse struct {
	Success               bool              `json:"success"`
	OrdersPendingDeletion []PendingDeletion `json:"orders_pending_deletion"`
	TotalPendingDeletion  int               `json:"total_pending_deletion"`
}
