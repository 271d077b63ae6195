package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"samovar/internal/domain"
	"samovar/internal/dto"
	"samovar/internal/errors"
	"samovar/internal/lifecycle"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, user_id, status, total_amount, delivery_type, delivery_address,
	       notes, phone, customer_name, created_at, updated_at, status_changed_at,
	       auto_transition_at, scheduled_deletion, deleted_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.UserID, &order.Status, &order.TotalAmount,
		&order.DeliveryType, &order.DeliveryAddress, &order.Notes,
		&order.Phone, &order.CustomerName, &order.CreatedAt, &order.UpdatedAt,
		&order.StatusChangedAt, &order.AutoTransitionAt,
		&order.ScheduledDeletion, &order.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = ?`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, status, total_amount, delivery_type, delivery_address,
		                    notes, phone, customer_name, created_at, updated_at, status_changed_at,
		                    auto_transition_at, scheduled_deletion, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		order.ID, order.UserID, order.Status, order.TotalAmount,
		order.DeliveryType, order.DeliveryAddress, order.Notes,
		order.Phone, order.CustomerName, order.CreatedAt, order.UpdatedAt,
		order.StatusChangedAt, order.AutoTransitionAt,
		order.ScheduledDeletion, order.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

// UpdateLifecycle applies a manual status change together with its
// recomputed lifecycle timestamps.
func (r *MySQLOrderRepository) UpdateLifecycle(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = ?, status_changed_at = ?, auto_transition_at = ?,
		    scheduled_deletion = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		order.Status, order.StatusChangedAt, order.AutoTransitionAt,
		order.ScheduledDeletion, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order lifecycle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", order.ID))
	}

	return nil
}

// ListByUserID returns a customer's non-deleted orders, newest first.
func (r *MySQLOrderRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, orderColumns)

	return r.queryOrders(ctx, query, userID)
}

// ListPendingAutoTransitions returns pending, non-deleted orders that
// carry a promotion horizon, soonest first. limit <= 0 means all.
func (r *MySQLOrderRepository) ListPendingAutoTransitions(ctx context.Context, limit int) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = ? AND deleted_at IS NULL AND auto_transition_at IS NOT NULL
		ORDER BY auto_transition_at ASC
	`, orderColumns)
	args := []any{domain.StatusPending}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryOrders(ctx, query, args...)
}

// ListScheduledDeletions returns non-deleted orders with a deletion
// horizon, soonest first. limit <= 0 means all.
func (r *MySQLOrderRepository) ListScheduledDeletions(ctx context.Context, limit int) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE deleted_at IS NULL AND scheduled_deletion IS NOT NULL
		ORDER BY scheduled_deletion ASC
	`, orderColumns)
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryOrders(ctx, query, args...)
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

// ApplyAutoTransition persists a promotion directive. The WHERE guard
// repeats the pending/not-deleted check so a racing manual edit or a
// second sweep run leaves the row untouched.
func (r *MySQLOrderRepository) ApplyAutoTransition(ctx context.Context, id string, directive lifecycle.TransitionDirective) (bool, error) {
	query := `
		UPDATE orders
		SET status = ?, status_changed_at = ?, auto_transition_at = NULL,
		    scheduled_deletion = ?, updated_at = ?
		WHERE id = ? AND status = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		directive.Status, directive.StatusChangedAt, directive.ScheduledDeletion,
		directive.StatusChangedAt, id, domain.StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("applying auto-transition: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SoftDelete marks an order deleted. Guarded on deleted_at so re-runs
// are no-ops.
func (r *MySQLOrderRepository) SoftDelete(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return false, fmt.Errorf("soft-deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Statistics counts non-deleted orders per status, plus deleted and
// total counts.
func (r *MySQLOrderRepository) Statistics(ctx context.Context) (dto.OrderStatistics, error) {
	query := `
		SELECT status, deleted_at IS NOT NULL AS is_deleted, COUNT(*)
		FROM orders
		GROUP BY status, is_deleted
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return dto.OrderStatistics{}, fmt.Errorf("querying order statistics: %w", err)
	}
	defer rows.Close()

	var stats dto.OrderStatistics
	for rows.Next() {
		var status domain.Status
		var deleted bool
		var count int
		if err := rows.Scan(&status, &deleted, &count); err != nil {
			return dto.OrderStatistics{}, fmt.Errorf("scanning statistics row: %w", err)
		}

		stats.TotalCount += count
		if deleted {
			stats.DeletedCount += count
			continue
		}

		switch status {
		case domain.StatusPending:
			stats.PendingCount += count
		case domain.StatusConfirmed:
			stats.ConfirmedCount += count
		case domain.StatusPreparing:
			stats.PreparingCount += count
		case domain.StatusReady:
			stats.ReadyCount += count
		case domain.StatusCompleted:
			stats.CompletedCount += count
		case domain.StatusCancelled:
			stats.CancelledCount += count
		}
	}

	if err := rows.Err(); err != nil {
		return dto.OrderStatistics{}, fmt.Errorf("iterating statistics: %w", err)
	}

	return stats, nil
}

func (r *MySQLOrderRepository) CleanupStatistics(ctx context.Context) (dto.CleanupStatistics, error) {
	query := `SELECT COUNT(*), COUNT(deleted_at) FROM orders`

	var stats dto.CleanupStatistics
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalOrders, &stats.DeletedOrders)
	if err != nil {
		return dto.CleanupStatistics{}, fmt.Errorf("querying cleanup statistics: %w", err)
	}

	stats.ActiveOrders = stats.TotalOrders - stats.DeletedOrders
	return stats, nil
}
