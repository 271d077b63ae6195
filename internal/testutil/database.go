package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a local
// MySQL with a 'samovar_test' schema; skips the test when absent.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/samovar_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"order_items", "orders", "contact_messages", "products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProducts := `
	CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price BIGINT NOT NULL,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrders := `
	CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		total_amount BIGINT NOT NULL DEFAULT 0,
		delivery_type VARCHAR(20) NOT NULL,
		delivery_address VARCHAR(255),
		notes TEXT,
		phone VARCHAR(30),
		customer_name VARCHAR(150),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		status_changed_at DATETIME NOT NULL,
		auto_transition_at DATETIME,
		scheduled_deletion DATETIME,
		deleted_at DATETIME,
		INDEX idx_status (status),
		INDEX idx_auto_transition (auto_transition_at),
		INDEX idx_scheduled_deletion (scheduled_deletion)
	)`

	createOrderItems := `
	CREATE TABLE IF NOT EXISTS order_items (
		id CHAR(36) NOT NULL PRIMARY KEY,
		order_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unit_price BIGINT NOT NULL,
		total_price BIGINT NOT NULL,
		notes TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		INDEX idx_order (order_id)
	)`

	createContactMessages := `
	CREATE TABLE IF NOT EXISTS contact_messages (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL,
		phone VARCHAR(30),
		subject VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"products", createProducts},
		{"orders", createOrders},
		{"order_items", createOrderItems},
		{"contact_messages", createContactMessages},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
