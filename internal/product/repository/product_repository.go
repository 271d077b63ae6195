package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samovar/internal/domain"
	"samovar/internal/errors"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

// FindByID reads the catalog slice checkout needs. Reads inside the
// checkout transaction so the price snapshot and the availability
// check see the same row version.
func (r *MySQLProductRepository) FindByID(ctx context.Context, tx *sql.Tx, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, price, is_available, created_at, updated_at
		FROM products
		WHERE id = ?
	`

	var product domain.Product
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Price,
		&product.IsAvailable, &product.CreatedAt, &product.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &product, nil
}
