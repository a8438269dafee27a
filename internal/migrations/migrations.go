package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// EntitySchema creates the five estate-sale tables. Statements are ordered
// parent-first so foreign keys always resolve.
var EntitySchema = []string{
	`CREATE TABLE IF NOT EXISTS EstateSaleEvents (
        eventID INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        startDate TEXT NOT NULL,
        endDate TEXT NOT NULL,
        location TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT ''
    );`,
	`CREATE TABLE IF NOT EXISTS Items (
        itemID INTEGER PRIMARY KEY AUTOINCREMENT,
        eventID INTEGER NOT NULL,
        name TEXT NOT NULL,
        category TEXT NOT NULL DEFAULT '',
        description TEXT NOT NULL DEFAULT '',
        startingPrice REAL NOT NULL,
        status TEXT NOT NULL DEFAULT 'Available',
        FOREIGN KEY(eventID) REFERENCES EstateSaleEvents(eventID)
    );`,
	`CREATE TABLE IF NOT EXISTS Customers (
        customerID INTEGER PRIMARY KEY AUTOINCREMENT,
        firstName TEXT NOT NULL,
        lastName TEXT NOT NULL,
        email TEXT NOT NULL UNIQUE,
        phone TEXT NOT NULL DEFAULT '',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`,
	`CREATE TABLE IF NOT EXISTS Sales (
        saleID INTEGER PRIMARY KEY AUTOINCREMENT,
        customerID INTEGER NOT NULL,
        saleDate TEXT NOT NULL,
        totalAmount REAL NOT NULL DEFAULT 0,
        paymentMethod TEXT NOT NULL,
        FOREIGN KEY(customerID) REFERENCES Customers(customerID)
    );`,
	`CREATE TABLE IF NOT EXISTS SoldItems (
        saleID INTEGER NOT NULL,
        itemID INTEGER NOT NULL,
        unitPrice REAL NOT NULL,
        quantity INTEGER NOT NULL,
        PRIMARY KEY (saleID, itemID),
        FOREIGN KEY(saleID) REFERENCES Sales(saleID),
        FOREIGN KEY(itemID) REFERENCES Items(itemID)
    );`,
}

// EntityDrops removes the five estate-sale tables, children first. Used by the
// reset operation; IF EXISTS makes the list safe to run against a schema left
// half-built by an abandoned reset.
var EntityDrops = []string{
	`DROP TABLE IF EXISTS SoldItems;`,
	`DROP TABLE IF EXISTS Sales;`,
	`DROP TABLE IF EXISTS Items;`,
	`DROP TABLE IF EXISTS Customers;`,
	`DROP TABLE IF EXISTS EstateSaleEvents;`,
}

var userSchema = `CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'staff',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Run creates the database schema required for the estate-sale backend.
// Staff accounts live outside the entity tables so a database reset does not
// log anyone out.
func Run(db *sqlx.DB) {
	schema := append([]string{userSchema}, EntitySchema...)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
