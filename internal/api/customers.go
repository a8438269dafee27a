package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bananaphone/m/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	var customers []domain.Customer
	err := h.db.Select(&customers, `SELECT customerID, firstName, lastName, email, phone, created_at
        FROM Customers ORDER BY lastName, firstName`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var customer domain.Customer
	err = h.db.Get(&customer, `SELECT customerID, firstName, lastName, email, phone, created_at
        FROM Customers WHERE customerID = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

type customerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// validateCustomer returns an error message, or "" when the request is valid.
func validateCustomer(req customerRequest) string {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return "Missing required fields: firstName, lastName, email"
	}
	if !emailPattern.MatchString(req.Email) {
		return "Invalid email format"
	}
	return ""
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCustomer(req); msg != "" {
		respondFailure(w, http.StatusBadRequest, msg)
		return
	}

	var duplicates int
	if err := h.db.Get(&duplicates, `SELECT COUNT(*) FROM Customers WHERE email = ?`, req.Email); err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	if duplicates > 0 {
		respondFailure(w, http.StatusBadRequest, "Email address already exists")
		return
	}

	res, err := h.db.Exec(`INSERT INTO Customers (firstName, lastName, email, phone) VALUES (?, ?, ?, ?)`,
		req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"customerID": id,
		"message":    "Customer created successfully",
	})
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCustomer(req); msg != "" {
		respondFailure(w, http.StatusBadRequest, msg)
		return
	}

	var duplicates int
	if err := h.db.Get(&duplicates, `SELECT COUNT(*) FROM Customers WHERE email = ? AND customerID <> ?`, req.Email, id); err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to update customer")
		return
	}
	if duplicates > 0 {
		respondFailure(w, http.StatusBadRequest, "Email address already exists")
		return
	}

	res, err := h.db.Exec(`UPDATE Customers SET firstName = ?, lastName = ?, email = ?, phone = ? WHERE customerID = ?`,
		req.FirstName, req.LastName, req.Email, req.Phone, id)
	if err != nil {
		respondFailure(w, http.StatusInternalServerError, "Failed to update customer")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondFailure(w, http.StatusNotFound, "Customer not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Customer updated successfully"})
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	saleCount, err := h.store.DeleteCustomer(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "Failed to delete customer")
		return
	}
	message := "Customer deleted successfully"
	if saleCount > 0 {
		message += fmt.Sprintf(" (%d associated sales also removed)", saleCount)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}

type customerOption struct {
	CustomerID int64  `db:"customerID" json:"customerID"`
	FullName   string `db:"fullName" json:"fullName"`
}

func (h *Handler) customersDropdown(w http.ResponseWriter, r *http.Request) {
	var options []customerOption
	err := h.db.Select(&options, `SELECT customerID, firstName || ' ' || lastName AS fullName
        FROM Customers ORDER BY lastName, firstName`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}
	if options == nil {
		options = []customerOption{}
	}
	respondJSON(w, http.StatusOK, options)
}
