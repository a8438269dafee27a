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

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	var events []domain.Event
	err := h.db.Select(&events, `SELECT eventID, title, startDate, endDate, location, description
        FROM EstateSaleEvents ORDER BY startDate DESC`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var event domain.Event
	err = h.db.Get(&event, `SELECT eventID, title, startDate, endDate, location, description
        FROM EstateSaleEvents WHERE eventID = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	respondJSON(w, http.StatusOK, event)
}

type eventRequest struct {
	Title       string `json:"title"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.StartDate == "" || req.EndDate == "" || req.Location == "" {
		respondFailure(w, http.StatusBadRequest, "Missing required fields: title, startDate, endDate, location")
		return
	}

	res, err := h.db.Exec(`INSERT INTO EstateSaleEvents (title, startDate, endDate, location, description) VALUES (?, ?, ?, ?, ?)`,
		req.Title, req.StartDate, req.EndDate, req.Location, req.Description)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to create event")
		return
	}
	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"eventID": id,
		"message": "Event created successfully",
	})
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.StartDate == "" || req.EndDate == "" || req.Location == "" {
		respondFailure(w, http.StatusBadRequest, "Missing required fields: title, startDate, endDate, location")
		return
	}

	res, err := h.db.Exec(`UPDATE EstateSaleEvents SET title = ?, startDate = ?, endDate = ?, location = ?, description = ? WHERE eventID = ?`,
		req.Title, req.StartDate, req.EndDate, req.Location, req.Description, id)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondFailure(w, http.StatusNotFound, "Event not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Event updated successfully"})
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid event id")
		return
	}
	itemCount, err := h.store.DeleteEvent(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "Failed to delete event")
		return
	}
	message := "Event deleted successfully"
	if itemCount > 0 {
		message += fmt.Sprintf(" (%d associated items also removed)", itemCount)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}

type eventOption struct {
	EventID int64  `db:"eventID" json:"eventID"`
	Title   string `db:"title" json:"title"`
}

func (h *Handler) eventsDropdown(w http.ResponseWriter, r *http.Request) {
	var options []eventOption
	if err := h.db.Select(&options, `SELECT eventID, title FROM EstateSaleEvents ORDER BY title`); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	if options == nil {
		options = []eventOption{}
	}
	respondJSON(w, http.StatusOK, options)
}
