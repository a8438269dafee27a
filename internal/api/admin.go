package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bananaphone/m/internal/metrics"
	"bananaphone/m/internal/store"
)

func (h *Handler) resetDatabase(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}

	start := time.Now()
	err := h.store.Reset(r.Context())
	duration := time.Since(start)

	switch {
	case errors.Is(err, store.ErrResetBusy):
		metrics.ObserveReset("busy")
		respondFailure(w, http.StatusTooManyRequests, "Database reset already in progress. Please wait.")
	case errors.Is(err, store.ErrResetTimeout):
		metrics.ObserveReset("timeout")
		log.Printf("database reset timed out after %v", duration)
		respondFailure(w, http.StatusRequestTimeout, "Database reset timed out. The database may be under heavy load. Please try again.")
	case err != nil:
		metrics.ObserveReset("error")
		log.Printf("database reset failed: %v", err)
		respondFailure(w, http.StatusInternalServerError, "Database reset failed. Please try again.")
	default:
		metrics.ObserveReset("ok")
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"message":  "Database has been reset successfully",
			"duration": fmt.Sprintf("%dms", duration.Milliseconds()),
		})
	}
}

func (h *Handler) debugTables(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.TableCounts(r.Context())
	if err != nil {
		log.Printf("table counts failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Database connection failed")
		return
	}
	respondJSON(w, http.StatusOK, counts)
}
