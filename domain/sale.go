package domain

// Payment methods accepted at the register.
var PaymentMethods = []string{"Cash", "Credit Card", "Check"}

// Sale is one checkout by a customer. TotalAmount is derived from the sale's
// SoldItems lines whenever a line is added, updated or removed; a sale with no
// lines keeps whatever amount it was created with.
type Sale struct {
	SaleID        int64   `db:"saleID" json:"saleID"`
	CustomerID    int64   `db:"customerID" json:"customerID"`
	SaleDate      string  `db:"saleDate" json:"saleDate"`
	TotalAmount   float64 `db:"totalAmount" json:"totalAmount"`
	PaymentMethod string  `db:"paymentMethod" json:"paymentMethod"`
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
