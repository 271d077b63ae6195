package domain

import "time"

// Product is the slice of the catalog the order flow needs: the
// current price to snapshot and the availability flag. Catalog
// management lives elsewhere.
type Product struct {
	ID          string
	Name        string
	Price       int64
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
