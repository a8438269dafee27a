package domain

// Customer is a buyer. Email addresses are unique.
type Customer struct {
	CustomerID int64  `db:"customerID" json:"customerID"`
	FirstName  string `db:"firstName" json:"firstName"`
	LastName   string `db:"lastName" json:"lastName"`
	Email      string `db:"email" json:"email"`
	Phone      string `db:"phone" json:"phone"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}
