package domain

// SoldItem links one sale to one item at a recorded price and quantity.
// The (saleID, itemID) pair is unique.
type SoldItem struct {
	SaleID    int64   `db:"saleID" json:"saleID"`
	ItemID    int64   `db:"itemID" json:"itemID"`
	UnitPrice float64 `db:"unitPrice" json:"unitPrice"`
	Quantity  int64   `db:"quantity" json:"quantity"`
}
