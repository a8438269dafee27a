// Package store owns every invariant-bearing, multi-statement mutation of the
// estate-sale schema: sold-item line composition, cascading deletes and the
// database reset. Each operation runs inside one transaction so concurrent
// readers see all of it or none of it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"bananaphone/m/domain"
)

// Store issues the transactional mutations that keep Sale.totalAmount and
// Item.status consistent with the SoldItems rows.
type Store struct {
	db           *sqlx.DB
	resetMu      sync.Mutex
	resetTimeout time.Duration
}

// New constructs a Store. resetTimeout bounds the reset operation.
func New(db *sqlx.DB, resetTimeout time.Duration) *Store {
	return &Store{db: db, resetTimeout: resetTimeout}
}

// recomputeSaleTotal re-derives totalAmount from the sale's lines. The total
// is never adjusted incrementally; independent add/update/remove paths would
// drift apart otherwise.
func recomputeSaleTotal(ctx context.Context, tx *sqlx.Tx, saleID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE Sales
        SET totalAmount = COALESCE((SELECT SUM(unitPrice * quantity) FROM SoldItems WHERE saleID = ?), 0)
        WHERE saleID = ?`, saleID, saleID)
	return err
}

// AddSoldItem records an item on a sale: inserts the line, marks the item
// Sold and re-derives the sale total, all in one transaction.
func (s *Store) AddSoldItem(ctx context.Context, line domain.SoldItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var saleID int64
	err = tx.GetContext(ctx, &saleID, `SELECT saleID FROM Sales WHERE saleID = ?`, line.SaleID)
	if errors.Is(err, sql.ErrNoRows) {
		return validation("Sale not found")
	}
	if err != nil {
		return err
	}

	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM Items WHERE itemID = ?`, line.ItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return validation("Item not found")
	}
	if err != nil {
		return err
	}
	if status == domain.StatusSold {
		return validation("Item is already sold")
	}

	var dup int
	if err := tx.GetContext(ctx, &dup, `SELECT COUNT(*) FROM SoldItems WHERE saleID = ? AND itemID = ?`, line.SaleID, line.ItemID); err != nil {
		return err
	}
	if dup > 0 {
		return validation("Item is already in this sale")
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO SoldItems (saleID, itemID, unitPrice, quantity) VALUES (?, ?, ?, ?)`,
		line.SaleID, line.ItemID, line.UnitPrice, line.Quantity); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE Items SET status = ? WHERE itemID = ?`, domain.StatusSold, line.ItemID); err != nil {
		return err
	}
	if err := recomputeSaleTotal(ctx, tx, line.SaleID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateSoldItem changes the price or quantity of an existing line and
// re-derives the sale total.
func (s *Store) UpdateSoldItem(ctx context.Context, saleID, itemID int64, unitPrice float64, quantity int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE SoldItems SET unitPrice = ?, quantity = ? WHERE saleID = ? AND itemID = ?`,
		unitPrice, quantity, saleID, itemID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound("Sold item record not found")
	}
	if err := recomputeSaleTotal(ctx, tx, saleID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveSoldItem deletes a line, reverts the item to Available when no other
// sale references it, and re-derives the sale total.
func (s *Store) RemoveSoldItem(ctx context.Context, saleID, itemID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM SoldItems WHERE saleID = ? AND itemID = ?`, saleID, itemID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound("Sold item record not found")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE Items SET status = ?
        WHERE itemID = ? AND NOT EXISTS (SELECT 1 FROM SoldItems WHERE itemID = ?)`,
		domain.StatusAvailable, itemID, itemID); err != nil {
		return err
	}
	if err := recomputeSaleTotal(ctx, tx, saleID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEvent removes an event and every item attached to it. Lines that
// referenced a removed item are deleted too, and the totals of the sales they
// belonged to are re-derived. Returns the number of items removed.
func (s *Store) DeleteEvent(ctx context.Context, eventID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM EstateSaleEvents WHERE eventID = ?`, eventID); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, notFound("Event not found")
	}

	var itemCount int64
	if err := tx.GetContext(ctx, &itemCount, `SELECT COUNT(*) FROM Items WHERE eventID = ?`, eventID); err != nil {
		return 0, err
	}

	var touchedSales []int64
	if err := tx.SelectContext(ctx, &touchedSales, `SELECT DISTINCT saleID FROM SoldItems
        WHERE itemID IN (SELECT itemID FROM Items WHERE eventID = ?)`, eventID); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM SoldItems WHERE itemID IN (SELECT itemID FROM Items WHERE eventID = ?)`, eventID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM Items WHERE eventID = ?`, eventID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM EstateSaleEvents WHERE eventID = ?`, eventID); err != nil {
		return 0, err
	}
	for _, saleID := range touchedSales {
		if err := recomputeSaleTotal(ctx, tx, saleID); err != nil {
			return 0, err
		}
	}
	return itemCount, tx.Commit()
}

// DeleteCustomer removes a customer, their sales and those sales' lines.
// Items sold solely through the removed sales revert to Available. Returns
// the number of sales removed.
func (s *Store) DeleteCustomer(ctx context.Context, customerID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM Customers WHERE customerID = ?`, customerID); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, notFound("Customer not found")
	}

	var saleCount int64
	if err := tx.GetContext(ctx, &saleCount, `SELECT COUNT(*) FROM Sales WHERE customerID = ?`, customerID); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE Items SET status = ?
        WHERE itemID IN (
            SELECT si.itemID FROM SoldItems si JOIN Sales s ON s.saleID = si.saleID WHERE s.customerID = ?
        ) AND itemID NOT IN (
            SELECT si.itemID FROM SoldItems si JOIN Sales s ON s.saleID = si.saleID WHERE s.customerID <> ?
        )`, domain.StatusAvailable, customerID, customerID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM SoldItems WHERE saleID IN (SELECT saleID FROM Sales WHERE customerID = ?)`, customerID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM Sales WHERE customerID = ?`, customerID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM Customers WHERE customerID = ?`, customerID); err != nil {
		return 0, err
	}
	return saleCount, tx.Commit()
}

// DeleteItem removes an item that has never been sold. Items referenced by a
// SoldItems row are protected; the line must be removed from its sale first.
func (s *Store) DeleteItem(ctx context.Context, itemID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM Items WHERE itemID = ?`, itemID); err != nil {
		return err
	}
	if exists == 0 {
		return notFound("Item not found")
	}

	var soldCount int
	if err := tx.GetContext(ctx, &soldCount, `SELECT COUNT(*) FROM SoldItems WHERE itemID = ?`, itemID); err != nil {
		return err
	}
	if soldCount > 0 {
		return conflict("Cannot delete item that has been sold. Please remove from sales first.")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM Items WHERE itemID = ?`, itemID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSale removes a sale and its lines. Items marked Sold solely because
// of this sale revert to Available. Returns the number of lines removed.
func (s *Store) DeleteSale(ctx context.Context, saleID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM Sales WHERE saleID = ?`, saleID); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, notFound("Sale not found")
	}

	var itemCount int64
	if err := tx.GetContext(ctx, &itemCount, `SELECT COUNT(*) FROM SoldItems WHERE saleID = ?`, saleID); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE Items SET status = ?
        WHERE itemID IN (SELECT itemID FROM SoldItems WHERE saleID = ?)
        AND itemID NOT IN (SELECT itemID FROM SoldItems WHERE saleID <> ?)`,
		domain.StatusAvailable, saleID, saleID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM SoldItems WHERE saleID = ?`, saleID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM Sales WHERE saleID = ?`, saleID); err != nil {
		return 0, err
	}
	return itemCount, tx.Commit()
}

// TableCounts returns the row count of each entity table. Diagnostic only.
func (s *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	tables := map[string]string{
		"events":    "EstateSaleEvents",
		"items":     "Items",
		"customers": "Customers",
		"sales":     "Sales",
		"soldItems": "SoldItems",
	}
	counts := make(map[string]int64, len(tables))
	for key, table := range tables {
		var n int64
		if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, nil
}
