package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"bananaphone/m/domain"
	"bananaphone/m/internal/migrations"
	"bananaphone/m/internal/seed"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	for _, stmt := range migrations.EntitySchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	if err := seed.Apply(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(db, 5*time.Second)
}

func saleTotal(t *testing.T, s *Store, saleID int64) float64 {
	t.Helper()
	var total float64
	if err := s.db.Get(&total, `SELECT totalAmount FROM Sales WHERE saleID = ?`, saleID); err != nil {
		t.Fatalf("fetch sale total: %v", err)
	}
	return total
}

func itemStatus(t *testing.T, s *Store, itemID int64) string {
	t.Helper()
	var status string
	if err := s.db.Get(&status, `SELECT status FROM Items WHERE itemID = ?`, itemID); err != nil {
		t.Fatalf("fetch item status: %v", err)
	}
	return status
}

func lineCount(t *testing.T, s *Store, saleID int64) int {
	t.Helper()
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM SoldItems WHERE saleID = ?`, saleID); err != nil {
		t.Fatalf("count lines: %v", err)
	}
	return n
}

func expectKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected classified error, got %v", err)
	}
	if se.Kind != kind {
		t.Fatalf("expected kind %d, got %d (%s)", kind, se.Kind, se.Message)
	}
	return se
}

func TestAddSoldItemRecomputesTotalAndMarksSold(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.db.Exec(`INSERT INTO Sales (customerID, saleDate, totalAmount, paymentMethod) VALUES (1, '2024-06-01', 0, 'Cash')`)
	if err != nil {
		t.Fatalf("insert sale: %v", err)
	}
	saleID, _ := res.LastInsertId()

	if err := s.AddSoldItem(ctx, domain.SoldItem{SaleID: saleID, ItemID: 5, UnitPrice: 85.00, Quantity: 1}); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if got := saleTotal(t, s, saleID); got != 85.00 {
		t.Fatalf("sale total = %v, want 85.00", got)
	}
	if got := itemStatus(t, s, 5); got != domain.StatusSold {
		t.Fatalf("item status = %q, want Sold", got)
	}

	// A second line must re-derive the total over all lines, not append.
	if err := s.AddSoldItem(ctx, domain.SoldItem{SaleID: saleID, ItemID: 10, UnitPrice: 180.00, Quantity: 2}); err != nil {
		t.Fatalf("add second line: %v", err)
	}
	if got := saleTotal(t, s, saleID); got != 85.00+360.00 {
		t.Fatalf("sale total = %v, want 445.00", got)
	}
}

func TestAddSoldItemRejectsSoldItem(t *testing.T) {
	s := newTestStore(t)

	before := saleTotal(t, s, 2)
	err := s.AddSoldItem(context.Background(), domain.SoldItem{SaleID: 2, ItemID: 2, UnitPrice: 10, Quantity: 1})
	se := expectKind(t, err, KindValidation)
	if se.Message != "Item is already sold" {
		t.Fatalf("unexpected message %q", se.Message)
	}
	if got := lineCount(t, s, 2); got != 1 {
		t.Fatalf("line count = %d, want 1", got)
	}
	if got := saleTotal(t, s, 2); got != before {
		t.Fatalf("sale total changed: %v -> %v", before, got)
	}
}

func TestAddSoldItemRejectsDuplicateLine(t *testing.T) {
	s := newTestStore(t)

	// Force the item back to Available so the duplicate check is reached.
	if _, err := s.db.Exec(`UPDATE Items SET status = 'Available' WHERE itemID = 2`); err != nil {
		t.Fatalf("update item: %v", err)
	}
	err := s.AddSoldItem(context.Background(), domain.SoldItem{SaleID: 1, ItemID: 2, UnitPrice: 10, Quantity: 1})
	se := expectKind(t, err, KindValidation)
	if se.Message != "Item is already in this sale" {
		t.Fatalf("unexpected message %q", se.Message)
	}
}

func TestAddSoldItemUnknownSaleOrItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.AddSoldItem(ctx, domain.SoldItem{SaleID: 999, ItemID: 1, UnitPrice: 10, Quantity: 1})
	if se := expectKind(t, err, KindValidation); se.Message != "Sale not found" {
		t.Fatalf("unexpected message %q", se.Message)
	}
	err = s.AddSoldItem(ctx, domain.SoldItem{SaleID: 1, ItemID: 999, UnitPrice: 10, Quantity: 1})
	if se := expectKind(t, err, KindValidation); se.Message != "Item not found" {
		t.Fatalf("unexpected message %q", se.Message)
	}
}

func TestUpdateSoldItemRecomputesTotal(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpdateSoldItem(context.Background(), 1, 2, 300.00, 2); err != nil {
		t.Fatalf("update line: %v", err)
	}
	if got := saleTotal(t, s, 1); got != 600.00 {
		t.Fatalf("sale total = %v, want 600.00", got)
	}
}

func TestUpdateSoldItemNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateSoldItem(context.Background(), 99, 99, 10, 1)
	expectKind(t, err, KindNotFound)
}

func TestRemoveSoldItemRevertsItemAndTotal(t *testing.T) {
	s := newTestStore(t)

	if err := s.RemoveSoldItem(context.Background(), 1, 2); err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if got := itemStatus(t, s, 2); got != domain.StatusAvailable {
		t.Fatalf("item status = %q, want Available", got)
	}
	if got := saleTotal(t, s, 1); got != 0 {
		t.Fatalf("sale total = %v, want 0", got)
	}
}

func TestRemoveSoldItemKeepsSoldWhenOtherSaleReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Second sale referencing the same item.
	res, err := s.db.Exec(`INSERT INTO Sales (customerID, saleDate, totalAmount, paymentMethod) VALUES (2, '2024-06-02', 0, 'Cash')`)
	if err != nil {
		t.Fatalf("insert sale: %v", err)
	}
	otherSale, _ := res.LastInsertId()
	if _, err := s.db.Exec(`INSERT INTO SoldItems (saleID, itemID, unitPrice, quantity) VALUES (?, 2, 275.00, 1)`, otherSale); err != nil {
		t.Fatalf("insert line: %v", err)
	}

	if err := s.RemoveSoldItem(ctx, 1, 2); err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if got := itemStatus(t, s, 2); got != domain.StatusSold {
		t.Fatalf("item status = %q, want Sold (still referenced)", got)
	}
}

func TestRemoveSoldItemNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.RemoveSoldItem(context.Background(), 99, 99)
	expectKind(t, err, KindNotFound)
}

func TestDeleteEventCascades(t *testing.T) {
	s := newTestStore(t)

	// Event 1 owns items 1, 2, 3; items 2 and 3 are lines on sales 1 and 4.
	count, err := s.DeleteEvent(context.Background(), 1)
	if err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if count != 3 {
		t.Fatalf("item count = %d, want 3", count)
	}

	var items int
	if err := s.db.Get(&items, `SELECT COUNT(*) FROM Items WHERE eventID = 1`); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Fatalf("items remaining = %d, want 0", items)
	}
	if got := lineCount(t, s, 1); got != 0 {
		t.Fatalf("sale 1 still has %d lines", got)
	}
	if got := saleTotal(t, s, 1); got != 0 {
		t.Fatalf("sale 1 total = %v, want 0 after cascade", got)
	}
	if got := saleTotal(t, s, 4); got != 0 {
		t.Fatalf("sale 4 total = %v, want 0 after cascade", got)
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.DeleteEvent(context.Background(), 999)
	expectKind(t, err, KindNotFound)
}

func TestDeleteCustomerCascades(t *testing.T) {
	s := newTestStore(t)

	// Customer 1 owns sales 1 and 4 with lines on items 2 and 3.
	count, err := s.DeleteCustomer(context.Background(), 1)
	if err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if count != 2 {
		t.Fatalf("sale count = %d, want 2", count)
	}

	var sales int
	if err := s.db.Get(&sales, `SELECT COUNT(*) FROM Sales WHERE customerID = 1`); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if sales != 0 {
		t.Fatalf("sales remaining = %d, want 0", sales)
	}
	if got := itemStatus(t, s, 2); got != domain.StatusAvailable {
		t.Fatalf("item 2 status = %q, want Available", got)
	}
	if got := itemStatus(t, s, 3); got != domain.StatusAvailable {
		t.Fatalf("item 3 status = %q, want Available", got)
	}
}

func TestDeleteItemConflictWhenSold(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteItem(context.Background(), 2)
	expectKind(t, err, KindConflict)

	var exists int
	if err := s.db.Get(&exists, `SELECT COUNT(*) FROM Items WHERE itemID = 2`); err != nil {
		t.Fatalf("count item: %v", err)
	}
	if exists != 1 {
		t.Fatal("conflicting delete removed the item")
	}
	if got := saleTotal(t, s, 1); got != 275.00 {
		t.Fatalf("sale 1 total = %v, want 275.00 unchanged", got)
	}
}

func TestDeleteItemUnsold(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteItem(context.Background(), 1); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	var exists int
	if err := s.db.Get(&exists, `SELECT COUNT(*) FROM Items WHERE itemID = 1`); err != nil {
		t.Fatalf("count item: %v", err)
	}
	if exists != 0 {
		t.Fatal("item not deleted")
	}
}

func TestDeleteItemNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteItem(context.Background(), 999)
	expectKind(t, err, KindNotFound)
}

func TestDeleteSaleRevertsItems(t *testing.T) {
	s := newTestStore(t)

	count, err := s.DeleteSale(context.Background(), 1)
	if err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if count != 1 {
		t.Fatalf("line count = %d, want 1", count)
	}
	if got := itemStatus(t, s, 2); got != domain.StatusAvailable {
		t.Fatalf("item 2 status = %q, want Available", got)
	}

	var sales int
	if err := s.db.Get(&sales, `SELECT COUNT(*) FROM Sales WHERE saleID = 1`); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if sales != 0 {
		t.Fatal("sale not deleted")
	}
}

func TestDeleteSaleNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.DeleteSale(context.Background(), 999)
	expectKind(t, err, KindNotFound)
}

func TestResetRestoresSeedData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.DeleteEvent(ctx, 1); err != nil {
		t.Fatalf("mutate before reset: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	counts, err := s.TableCounts(ctx)
	if err != nil {
		t.Fatalf("table counts: %v", err)
	}
	want := map[string]int64{"events": 3, "items": 10, "customers": 5, "sales": 5, "soldItems": 5}
	for table, n := range want {
		if counts[table] != n {
			t.Fatalf("%s count = %d, want %d", table, counts[table], n)
		}
	}
}

func TestResetBusyRejectsConcurrentRequest(t *testing.T) {
	s := newTestStore(t)

	s.resetMu.Lock()
	err := s.Reset(context.Background())
	s.resetMu.Unlock()

	if !errors.Is(err, ErrResetBusy) {
		t.Fatalf("expected ErrResetBusy, got %v", err)
	}
}

func TestResetTimeout(t *testing.T) {
	s := newTestStore(t)
	s.resetTimeout = time.Nanosecond

	err := s.Reset(context.Background())
	if !errors.Is(err, ErrResetTimeout) {
		t.Fatalf("expected ErrResetTimeout, got %v", err)
	}
}

func TestTableCounts(t *testing.T) {
	s := newTestStore(t)

	counts, err := s.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("table counts: %v", err)
	}
	if counts["items"] != 10 || counts["events"] != 3 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
