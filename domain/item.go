package domain

// Item status values.
const (
	StatusAvailable = "Available"
	StatusHeld      = "Held"
	StatusSold      = "Sold"
)

// ItemStatuses lists every valid item status.
var ItemStatuses = []string{StatusAvailable, StatusHeld, StatusSold}

// Item is a single piece of inventory offered at an estate sale event.
// Status must be "Sold" exactly when a SoldItems row references the item.
type Item struct {
	ItemID        int64   `db:"itemID" json:"itemID"`
	EventID       int64   `db:"eventID" json:"eventID"`
	Name          string  `db:"name" json:"name"`
	Category      string  `db:"category" json:"category"`
	Description   string  `db:"description" json:"description"`
	StartingPrice float64 `db:"startingPrice" json:"startingPrice"`
	Status        string  `db:"status" json:"status"`
}

// ValidItemStatus reports whether s is one of the item status values.
func ValidItemStatus(s string) bool {
	for _, status := range ItemStatuses {
		if s == status {
			return true
		}
	}
	return false
}
