package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bananaphone/m/domain"
)

type saleRow struct {
	domain.Sale
	CustomerName string `db:"customerName" json:"customerName"`
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	var sales []saleRow
	err := h.db.Select(&sales, `SELECT s.saleID, s.customerID, s.saleDate, s.totalAmount, s.paymentMethod,
            c.firstName || ' ' || c.lastName AS customerName
        FROM Sales s
        JOIN Customers c ON s.customerID = c.customerID
        ORDER BY s.saleDate DESC`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sales")
		return
	}
	if sales == nil {
		sales = []saleRow{}
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var sale saleRow
	err = h.db.Get(&sale, `SELECT s.saleID, s.customerID, s.saleDate, s.totalAmount, s.paymentMethod,
            c.firstName || ' ' || c.lastName AS customerName
        FROM Sales s
        JOIN Customers c ON s.customerID = c.customerID
        WHERE s.saleID = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Sale not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sale")
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

type saleLineRow struct {
	SaleID      int64   `db:"saleID" json:"saleID"`
	ItemID      int64   `db:"itemID" json:"itemID"`
	UnitPrice   float64 `db:"unitPrice" json:"unitPrice"`
	Quantity    int64   `db:"quantity" json:"quantity"`
	ItemName    string  `db:"itemName" json:"itemName"`
	Category    string  `db:"category" json:"category"`
	Description string  `db:"description" json:"description"`
}

func (h *Handler) saleItems(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "saleId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var lines []saleLineRow
	err = h.db.Select(&lines, `SELECT si.saleID, si.itemID, si.unitPrice, si.quantity,
            i.name AS itemName, i.category, i.description
        FROM SoldItems si
        JOIN Items i ON si.itemID = i.itemID
        WHERE si.saleID = ?
        ORDER BY i.name`, saleID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sold items for sale")
		return
	}
	if lines == nil {
		lines = []saleLineRow{}
	}
	respondJSON(w, http.StatusOK, lines)
}

// TotalAmount is a pointer: a new sale legitimately starts at 0.00 before any
// lines are added.
type saleRequest struct {
	CustomerID    int64    `json:"customerID"`
	SaleDate      string   `json:"saleDate"`
	TotalAmount   *float64 `json:"totalAmount"`
	PaymentMethod string   `json:"paymentMethod"`
}

func (h *Handler) validateSale(w http.ResponseWriter, req saleRequest) bool {
	if req.CustomerID == 0 || req.SaleDate == "" || req.TotalAmount == nil || req.PaymentMethod == "" {
		respondFailure(w, http.StatusBadRequest, "Missing required fields: customerID, saleDate, totalAmount, paymentMethod")
		return false
	}
	if *req.TotalAmount < 0 {
		respondFailure(w, http.StatusBadRequest, "Total amount must be positive")
		return false
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		respondFailure(w, http.StatusBadRequest, "Invalid payment method. Must be: Cash, Credit Card, or Check")
		return false
	}

	var exists int
	if err := h.db.Get(&exists, `SELECT COUNT(*) FROM Customers WHERE customerID = ?`, req.CustomerID); err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to validate customer")
		return false
	}
	if exists == 0 {
		respondFailure(w, http.StatusBadRequest, "Customer not found")
		return false
	}
	return true
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.validateSale(w, req) {
		return
	}

	res, err := h.db.Exec(`INSERT INTO Sales (customerID, saleDate, totalAmount, paymentMethod) VALUES (?, ?, ?, ?)`,
		req.CustomerID, req.SaleDate, *req.TotalAmount, req.PaymentMethod)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to create sale")
		return
	}
	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"saleID":  id,
		"message": "Sale created successfully",
	})
}

func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.validateSale(w, req) {
		return
	}

	res, err := h.db.Exec(`UPDATE Sales SET customerID = ?, saleDate = ?, totalAmount = ?, paymentMethod = ? WHERE saleID = ?`,
		req.CustomerID, req.SaleDate, *req.TotalAmount, req.PaymentMethod, id)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to update sale")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondFailure(w, http.StatusNotFound, "Sale not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Sale updated successfully"})
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	itemCount, err := h.store.DeleteSale(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "Failed to delete sale")
		return
	}
	message := "Sale deleted successfully"
	if itemCount > 0 {
		message += fmt.Sprintf(" (%d items returned to Available status)", itemCount)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}
