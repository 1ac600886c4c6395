package domain

import "time"

// Product is a catalog entry managed by admins and readable by anyone.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
