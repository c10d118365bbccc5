package domain

import "time"

// Product is the aggregate for inventory records. OwnerID is set at creation
// and never reassigned.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	Rating      float64
	ImageURL    string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
