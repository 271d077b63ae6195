package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samovar/internal/domain"
)

type MySQLMessageRepository struct {
	db *sql.DB
}

func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

func (r *MySQLMessageRepository) Insert(ctx context.Context, message *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, phone, subject, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.Name, message.Email, message.Phone,
		message.Subject, message.Message, message.IsRead, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}

	return nil
}
