package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bananaphone/m/domain"
)

type itemRow struct {
	domain.Item
	EventTitle string `db:"eventTitle" json:"eventTitle"`
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	var items []itemRow
	err := h.db.Select(&items, `SELECT i.itemID, i.eventID, i.name, i.category, i.description,
            i.startingPrice, i.status,
            COALESCE(e.title, 'No Event Assigned') AS eventTitle
        FROM Items i
        LEFT JOIN EstateSaleEvents e ON i.eventID = e.eventID
        ORDER BY i.eventID, i.name`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	if items == nil {
		items = []itemRow{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var item itemRow
	err = h.db.Get(&item, `SELECT i.itemID, i.eventID, i.name, i.category, i.description,
            i.startingPrice, i.status,
            COALESCE(e.title, 'No Event Assigned') AS eventTitle
        FROM Items i
        LEFT JOIN EstateSaleEvents e ON i.eventID = e.eventID
        WHERE i.itemID = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// StartingPrice is a pointer so a legitimate 0.00 price is distinguishable
// from an absent field.
type itemRequest struct {
	EventID       int64    `json:"eventID"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	StartingPrice *float64 `json:"startingPrice"`
	Status        string   `json:"status"`
}

func (h *Handler) validateItem(w http.ResponseWriter, req itemRequest) bool {
	if req.EventID == 0 || req.Name == "" || req.StartingPrice == nil {
		respondFailure(w, http.StatusBadRequest, "Missing required fields: eventID, name, startingPrice")
		return false
	}
	if *req.StartingPrice < 0 {
		respondFailure(w, http.StatusBadRequest, "Starting price must be positive")
		return false
	}
	if req.Status != "" && !domain.ValidItemStatus(req.Status) {
		respondFailure(w, http.StatusBadRequest, "Invalid status. Must be: Available, Held, or Sold")
		return false
	}

	var exists int
	if err := h.db.Get(&exists, `SELECT COUNT(*) FROM EstateSaleEvents WHERE eventID = ?`, req.EventID); err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to validate event")
		return false
	}
	if exists == 0 {
		respondFailure(w, http.StatusBadRequest, "Event not found")
		return false
	}
	return true
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.validateItem(w, req) {
		return
	}
	status := req.Status
	if status == "" {
		status = domain.StatusAvailable
	}

	res, err := h.db.Exec(`INSERT INTO Items (eventID, name, category, description, startingPrice, status) VALUES (?, ?, ?, ?, ?, ?)`,
		req.EventID, req.Name, req.Category, req.Description, *req.StartingPrice, status)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to create item")
		return
	}
	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"itemID":  id,
		"message": "Item created successfully",
	})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.validateItem(w, req) {
		return
	}

	// An omitted status keeps the stored value; a Sold item must not flip
	// back to Available through a field-omitting update.
	res, err := h.db.Exec(`UPDATE Items SET name = ?, description = ?, category = ?, startingPrice = ?, eventID = ?,
        status = COALESCE(NULLIF(?, ''), status) WHERE itemID = ?`,
		req.Name, req.Description, req.Category, *req.StartingPrice, req.EventID, req.Status, id)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to update item")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondFailure(w, http.StatusNotFound, "Item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Item updated successfully"})
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := h.store.DeleteItem(r.Context(), id); err != nil {
		respondStoreError(w, err, "Failed to delete item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Item deleted successfully"})
}

type availableItem struct {
	ItemID        int64   `db:"itemID" json:"itemID"`
	Name          string  `db:"name" json:"name"`
	StartingPrice float64 `db:"startingPrice" json:"startingPrice"`
	EventTitle    string  `db:"eventTitle" json:"eventTitle"`
}

func (h *Handler) availableItems(w http.ResponseWriter, r *http.Request) {
	var items []availableItem
	err := h.db.Select(&items, `SELECT i.itemID, i.name, i.startingPrice,
            COALESCE(e.title, 'No Event Assigned') AS eventTitle
        FROM Items i
        LEFT JOIN EstateSaleEvents e ON i.eventID = e.eventID
        WHERE i.status = 'Available'
        ORDER BY i.name`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch available items")
		return
	}
	if items == nil {
		items = []availableItem{}
	}
	respondJSON(w, http.StatusOK, items)
}
