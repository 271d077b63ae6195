package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samovar/internal/domain"
	"samovar/internal/errors"
	"samovar/internal/lifecycle"
	"samovar/internal/testutil"
)

func insertOrder(t *testing.T, db *sql.DB, repo *MySQLOrderRepository, order *domain.Order) {
	tx, err := db.Begin()
	require.NoError(t, err)

	err = repo.Insert(context.Background(), tx, order)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}

func testOrder(status domain.Status) *domain.Order {
	now := time.Now().UTC().Truncate(time.Second)
	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          uuid.NewString(),
		Status:          status,
		TotalAmount:     45000,
		DeliveryType:    domain.DeliveryPickup,
		CreatedAt:       now,
		UpdatedAt:       now,
		StatusChangedAt: now,
	}
	if status == domain.StatusPending {
		horizon := lifecycle.AutoTransitionAt(now)
		order.AutoTransitionAt = &horizon
	}
	return order
}

func TestOrderRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder(domain.StatusPending)
	insertOrder(t, db, repo, order)

	found, err := repo.FindByID(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, domain.StatusPending, found.Status)
	assert.Equal(t, int64(45000), found.TotalAmount)
	require.NotNil(t, found.AutoTransitionAt)
	assert.Nil(t, found.ScheduledDeletion)
	assert.Nil(t, found.DeletedAt)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.NewString())

	require.Error(t, err)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_ApplyAutoTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder(domain.StatusPending)
	insertOrder(t, db, repo, order)

	now := time.Now().UTC().Truncate(time.Second)
	horizon := now.Add(30 * 24 * time.Hour)
	directive := lifecycle.TransitionDirective{
		Status:            domain.StatusCompleted,
		StatusChangedAt:   now,
		ScheduledDeletion: &horizon,
	}

	applied, err := repo.ApplyAutoTransition(context.Background(), order.ID, directive)
	require.NoError(t, err)
	assert.True(t, applied)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, found.Status)
	assert.Nil(t, found.AutoTransitionAt)
	require.NotNil(t, found.ScheduledDeletion)

	// Second application hits the status guard.
	applied, err = repo.ApplyAutoTransition(context.Background(), order.ID, directive)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestOrderRepository_ApplyAutoTransition_GuardsNonPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder(domain.StatusConfirmed)
	insertOrder(t, db, repo, order)

	applied, err := repo.ApplyAutoTransition(context.Background(), order.ID, lifecycle.TransitionDirective{
		Status:          domain.StatusCompleted,
		StatusChangedAt: time.Now().UTC(),
	})

	require.NoError(t, err)
	assert.False(t, applied)
}

func TestOrderRepository_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder(domain.StatusCancelled)
	insertOrder(t, db, repo, order)

	now := time.Now().UTC().Truncate(time.Second)

	applied, err := repo.SoftDelete(context.Background(), order.ID, now)
	require.NoError(t, err)
	assert.True(t, applied)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.DeletedAt)

	// Already deleted rows stay untouched.
	applied, err = repo.SoftDelete(context.Background(), order.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestOrderRepository_UpdateLifecycle_DeletedOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	order := testOrder(domain.StatusCompleted)
	insertOrder(t, db, repo, order)

	_, err := repo.SoftDelete(context.Background(), order.ID, time.Now().UTC())
	require.NoError(t, err)

	order.Status = domain.StatusPreparing
	err = repo.UpdateLifecycle(context.Background(), order)

	require.Error(t, err)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_ListByUserID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	mine := testOrder(domain.StatusPending)
	insertOrder(t, db, repo, mine)
	insertOrder(t, db, repo, testOrder(domain.StatusPending))

	deleted := testOrder(domain.StatusCancelled)
	deleted.UserID = mine.UserID
	insertOrder(t, db, repo, deleted)
	_, err := repo.SoftDelete(context.Background(), deleted.ID, time.Now().UTC())
	require.NoError(t, err)

	orders, err := repo.ListByUserID(context.Background(), mine.UserID)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
}

func TestOrderRepository_ListPendingAutoTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	insertOrder(t, db, repo, testOrder(domain.StatusPending))
	insertOrder(t, db, repo, testOrder(domain.StatusPending))
	insertOrder(t, db, repo, testOrder(domain.StatusConfirmed))

	orders, err := repo.ListPendingAutoTransitions(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, orders, 2)

	limited, err := repo.ListPendingAutoTransitions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOrderRepository_Statistics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	insertOrder(t, db, repo, testOrder(domain.StatusPending))
	insertOrder(t, db, repo, testOrder(domain.StatusCompleted))

	deleted := testOrder(domain.StatusCancelled)
	insertOrder(t, db, repo, deleted)
	_, err := repo.SoftDelete(context.Background(), deleted.ID, time.Now().UTC())
	require.NoError(t, err)

	stats, err := repo.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 1, stats.DeletedCount)
	assert.Equal(t, 3, stats.TotalCount)

	cleanup, err := repo.CleanupStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cleanup.TotalOrders)
	assert.Equal(t, 1, cleanup.DeletedOrders)
	assert.Equal(t, 2, cleanup.ActiveOrders)
}
