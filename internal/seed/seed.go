package seed

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"bananaphone/m/domain"
)

// Fixed sample dataset. A database reset reloads exactly these rows.

var events = []domain.Event{
	{EventID: 1, Title: "Johnson Family Estate Sale", StartDate: "2024-03-15", EndDate: "2024-03-17", Location: "123 Oak Street, Portland, OR", Description: "Complete household contents including antiques, furniture, and collectibles"},
	{EventID: 2, Title: "Modern Art & Vintage Collection", StartDate: "2024-04-20", EndDate: "2024-04-22", Location: "456 Pine Avenue, Eugene, OR", Description: "Contemporary art pieces and vintage mid-century furniture"},
	{EventID: 3, Title: "Coin & Jewelry Estate Sale", StartDate: "2024-05-10", EndDate: "2024-05-12", Location: "789 Elm Drive, Salem, OR", Description: "Rare coins, precious jewelry, and luxury accessories"},
}

var items = []domain.Item{
	{ItemID: 1, EventID: 1, Name: "Antique Oak Dining Table", Category: "Furniture", Description: "Beautiful 1920s oak dining table with 6 matching chairs", StartingPrice: 450.00, Status: domain.StatusAvailable},
	{ItemID: 2, EventID: 1, Name: "Royal Doulton China Set", Category: "Dishware", Description: "Complete 12-piece Royal Doulton china service", StartingPrice: 275.00, Status: domain.StatusSold},
	{ItemID: 3, EventID: 1, Name: "Victorian Jewelry Box", Category: "Accessories", Description: "Ornate Victorian jewelry box with velvet interior", StartingPrice: 125.00, Status: domain.StatusSold},
	{ItemID: 4, EventID: 2, Name: "Mid-Century Modern Sofa", Category: "Furniture", Description: "Pristine condition 1960s sectional sofa", StartingPrice: 800.00, Status: domain.StatusHeld},
	{ItemID: 5, EventID: 2, Name: "Abstract Oil Painting", Category: "Art", Description: "Original abstract oil painting by local artist", StartingPrice: 150.00, Status: domain.StatusAvailable},
	{ItemID: 6, EventID: 2, Name: "Atomic Clock", Category: "Decor", Description: "1950s atomic sunburst wall clock", StartingPrice: 85.00, Status: domain.StatusSold},
	{ItemID: 7, EventID: 2, Name: "Boomerang Coffee Table", Category: "Furniture", Description: "Iconic mid-century boomerang-shaped coffee table", StartingPrice: 320.00, Status: domain.StatusSold},
	{ItemID: 8, EventID: 3, Name: "Gold Wedding Ring Set", Category: "Jewelry", Description: "14k gold wedding ring set with diamonds", StartingPrice: 650.00, Status: domain.StatusAvailable},
	{ItemID: 9, EventID: 3, Name: "1964 Kennedy Half Dollar", Category: "Collectibles", Description: "Rare 1964 Kennedy half dollar in excellent condition", StartingPrice: 25.00, Status: domain.StatusSold},
	{ItemID: 10, EventID: 3, Name: "Pearl Necklace", Category: "Jewelry", Description: "Genuine cultured pearl necklace with gold clasp", StartingPrice: 180.00, Status: domain.StatusAvailable},
}

var customers = []domain.Customer{
	{CustomerID: 1, FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@email.com", Phone: "(503) 555-0123", CreatedAt: "2024-03-14"},
	{CustomerID: 2, FirstName: "Michael", LastName: "Chen", Email: "michael.chen@email.com", Phone: "(503) 555-0456", CreatedAt: "2024-04-19"},
	{CustomerID: 3, FirstName: "Emily", LastName: "Rodriguez", Email: "emily.rodriguez@email.com", Phone: "(503) 555-0789", CreatedAt: "2024-05-09"},
	{CustomerID: 4, FirstName: "David", LastName: "Thompson", Email: "david.thompson@email.com", Phone: "(503) 555-0321", CreatedAt: "2024-04-20"},
	{CustomerID: 5, FirstName: "Lisa", LastName: "Martinez", Email: "lisa.martinez@email.com", Phone: "(503) 555-0654", CreatedAt: "2024-03-16"},
}

var sales = []domain.Sale{
	{SaleID: 1, CustomerID: 1, SaleDate: "2024-03-16", TotalAmount: 275.00, PaymentMethod: "Credit Card"},
	{SaleID: 2, CustomerID: 2, SaleDate: "2024-04-21", TotalAmount: 85.00, PaymentMethod: "Cash"},
	{SaleID: 3, CustomerID: 3, SaleDate: "2024-05-11", TotalAmount: 25.00, PaymentMethod: "Check"},
	{SaleID: 4, CustomerID: 1, SaleDate: "2024-03-17", TotalAmount: 125.00, PaymentMethod: "Credit Card"},
	{SaleID: 5, CustomerID: 4, SaleDate: "2024-04-22", TotalAmount: 320.00, PaymentMethod: "Cash"},
}

var soldItems = []domain.SoldItem{
	{SaleID: 1, ItemID: 2, UnitPrice: 275.00, Quantity: 1},
	{SaleID: 2, ItemID: 6, UnitPrice: 85.00, Quantity: 1},
	{SaleID: 3, ItemID: 9, UnitPrice: 25.00, Quantity: 1},
	{SaleID: 4, ItemID: 3, UnitPrice: 125.00, Quantity: 1},
	{SaleID: 5, ItemID: 7, UnitPrice: 320.00, Quantity: 1},
}

// Apply inserts the sample dataset using the caller's transaction or
// connection. INSERT OR IGNORE keeps startup seeding idempotent.
func Apply(ctx context.Context, ext sqlx.ExtContext) error {
	for _, e := range events {
		if _, err := ext.ExecContext(ctx, `INSERT OR IGNORE INTO EstateSaleEvents (eventID, title, startDate, endDate, location, description) VALUES (?, ?, ?, ?, ?, ?)`,
			e.EventID, e.Title, e.StartDate, e.EndDate, e.Location, e.Description); err != nil {
			return err
		}
	}
	for _, i := range items {
		if _, err := ext.ExecContext(ctx, `INSERT OR IGNORE INTO Items (itemID, eventID, name, category, description, startingPrice, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i.ItemID, i.EventID, i.Name, i.Category, i.Description, i.StartingPrice, i.Status); err != nil {
			return err
		}
	}
	for _, c := range customers {
		if _, err := ext.ExecContext(ctx, `INSERT OR IGNORE INTO Customers (customerID, firstName, lastName, email, phone, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			c.CustomerID, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt); err != nil {
			return err
		}
	}
	for _, s := range sales {
		if _, err := ext.ExecContext(ctx, `INSERT OR IGNORE INTO Sales (saleID, customerID, saleDate, totalAmount, paymentMethod) VALUES (?, ?, ?, ?, ?)`,
			s.SaleID, s.CustomerID, s.SaleDate, s.TotalAmount, s.PaymentMethod); err != nil {
			return err
		}
	}
	for _, si := range soldItems {
		if _, err := ext.ExecContext(ctx, `INSERT OR IGNORE INTO SoldItems (saleID, itemID, unitPrice, quantity) VALUES (?, ?, ?, ?)`,
			si.SaleID, si.ItemID, si.UnitPrice, si.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Run seeds the sample dataset at startup inside one transaction. Seeding
// only happens on an empty database: the entity tables hold mutable business
// data, and a restart must not resurrect rows the user deleted. A reset is
// the sole reseed path.
func Run(db *sqlx.DB) {
	var populated int
	err := db.Get(&populated, `SELECT
        (SELECT COUNT(*) FROM EstateSaleEvents) +
        (SELECT COUNT(*) FROM Items) +
        (SELECT COUNT(*) FROM Customers) +
        (SELECT COUNT(*) FROM Sales) +
        (SELECT COUNT(*) FROM SoldItems)`)
	if err != nil {
		log.Printf("unable to check for existing data: %v", err)
		return
	}
	if populated > 0 {
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start seed transaction: %v", err)
		return
	}
	if err := Apply(context.Background(), tx); err != nil {
		log.Printf("unable to seed sample data: %v", err)
		_ = tx.Rollback()
		return
	}
	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit sample data: %v", err)
	}
}

// EnsureAdmin creates the bootstrap admin account if it does not exist.
func EnsureAdmin(db *sqlx.DB, username, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("unable to hash admin password: %v", err)
		return
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO users (username, password, role) VALUES (?, ?, 'admin')`, username, hashed); err != nil {
		log.Printf("unable to seed admin account: %v", err)
	}
}
