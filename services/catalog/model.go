package catalog

import (
	"fmt"
	"time"
)

type Product struct {
	UID          string
	Name         string
	Description  string `datastore:",noindex"`
	PriceInCents int64
	Category     string
	ImageURL     string `datastore:",noindex"`
	// Stock is informational only: checkout does not reserve or decrement it
	Stock        int
	CreatedAt    time.Time
	LastModified *time.Time
}

func (p Product) GetDisplayPrice() string {
	return fmt.Sprintf("%.2f", float64(p.PriceInCents)/100.0)
}
