package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bananaphone/m/domain"
)

type soldItemRow struct {
	SaleID        int64   `db:"saleID" json:"saleID"`
	ItemID        int64   `db:"itemID" json:"itemID"`
	UnitPrice     float64 `db:"unitPrice" json:"unitPrice"`
	Quantity      int64   `db:"quantity" json:"quantity"`
	ItemName      string  `db:"itemName" json:"itemName"`
	Category      string  `db:"category" json:"category"`
	StartingPrice float64 `db:"startingPrice" json:"startingPrice"`
	CustomerName  string  `db:"customerName" json:"customerName"`
	SaleDate      string  `db:"saleDate" json:"saleDate"`
	PaymentMethod string  `db:"paymentMethod" json:"paymentMethod"`
	EventTitle    string  `db:"eventTitle" json:"eventTitle"`
}

func (h *Handler) listSoldItems(w http.ResponseWriter, r *http.Request) {
	var rows []soldItemRow
	err := h.db.Select(&rows, `SELECT si.saleID, si.itemID, si.unitPrice, si.quantity,
            i.name AS itemName, i.category, i.startingPrice,
            c.firstName || ' ' || c.lastName AS customerName,
            s.saleDate, s.paymentMethod,
            COALESCE(e.title, 'No Event Assigned') AS eventTitle
        FROM SoldItems si
        JOIN Items i ON si.itemID = i.itemID
        JOIN Sales s ON si.saleID = s.saleID
        JOIN Customers c ON s.customerID = c.customerID
        LEFT JOIN EstateSaleEvents e ON i.eventID = e.eventID
        ORDER BY s.saleDate DESC, i.name`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sold items")
		return
	}
	if rows == nil {
		rows = []soldItemRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// UnitPrice is a pointer so a free item (0.00) is distinguishable from a
// missing field.
type soldItemRequest struct {
	SaleID    int64    `json:"saleID"`
	ItemID    int64    `json:"itemID"`
	UnitPrice *float64 `json:"unitPrice"`
	Quantity  int64    `json:"quantity"`
}

func (h *Handler) createSoldItem(w http.ResponseWriter, r *http.Request) {
	var req soldItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SaleID == 0 || req.ItemID == 0 || req.UnitPrice == nil || req.Quantity == 0 {
		respondFailure(w, http.StatusBadRequest, "Missing required fields: saleID, itemID, unitPrice, quantity")
		return
	}
	if *req.UnitPrice < 0 || req.Quantity < 1 {
		respondFailure(w, http.StatusBadRequest, "Unit price must be positive and quantity must be at least 1")
		return
	}

	line := domain.SoldItem{SaleID: req.SaleID, ItemID: req.ItemID, UnitPrice: *req.UnitPrice, Quantity: req.Quantity}
	if err := h.store.AddSoldItem(r.Context(), line); err != nil {
		respondStoreError(w, err, "Failed to add item to sale")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Item added to sale successfully"})
}

func soldItemKey(w http.ResponseWriter, r *http.Request) (saleID, itemID int64, ok bool) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "saleId"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid sale id")
		return 0, 0, false
	}
	itemID, err = strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid item id")
		return 0, 0, false
	}
	return saleID, itemID, true
}

func (h *Handler) updateSoldItem(w http.ResponseWriter, r *http.Request) {
	saleID, itemID, ok := soldItemKey(w, r)
	if !ok {
		return
	}
	var req struct {
		UnitPrice *float64 `json:"unitPrice"`
		Quantity  int64    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UnitPrice == nil || req.Quantity == 0 {
		respondFailure(w, http.StatusBadRequest, "Missing required fields: unitPrice, quantity")
		return
	}
	if *req.UnitPrice < 0 || req.Quantity < 1 {
		respondFailure(w, http.StatusBadRequest, "Unit price must be positive and quantity must be at least 1")
		return
	}

	if err := h.store.UpdateSoldItem(r.Context(), saleID, itemID, *req.UnitPrice, req.Quantity); err != nil {
		respondStoreError(w, err, "Failed to update sold item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Sold item updated successfully"})
}

func (h *Handler) deleteSoldItem(w http.ResponseWriter, r *http.Request) {
	saleID, itemID, ok := soldItemKey(w, r)
	if !ok {
		return
	}
	if err := h.store.RemoveSoldItem(r.Context(), saleID, itemID); err != nil {
		respondStoreError(w, err, "Failed to remove item from sale")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Item removed from sale successfully"})
}
