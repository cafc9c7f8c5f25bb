package cart

import (
	"fmt"
	"time"
)

// Item is a single cart line, unique per (user, product).
type Item struct {
	UID          string
	UserUID      string
	ProductUID   string
	Quantity     int
	CreatedAt    time.Time
	LastModified *time.Time
}

// ComposeItemUID keys a cart line on user and product so that repeat
// adds of the same product hit the same row.
func ComposeItemUID(userUID string, productUID string) string {
	return fmt.Sprintf("%s/%s", userUID, productUID)
}
