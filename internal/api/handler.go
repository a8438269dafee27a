package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"bananaphone/m/client"
	"bananaphone/m/internal/metrics"
	"bananaphone/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db     *sqlx.DB
	store  *store.Store
	secret string
}

// New constructs a Handler.
func New(db *sqlx.DB, st *store.Store, secret string) *Handler {
	return &Handler{db: db, store: st, secret: secret}
}

// Router wires up the HTTP API and the embedded frontend.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(metrics.Middleware)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/register", h.register)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.listEvents)
			r.Get("/dropdown", h.eventsDropdown)
			r.Get("/{id}", h.getEvent)
			r.Post("/", h.createEvent)
			r.Put("/{id}", h.updateEvent)
			r.Delete("/{id}", h.deleteEvent)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Get("/dropdown", h.customersDropdown)
			r.Get("/{id}", h.getCustomer)
			r.Post("/", h.createCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Get("/available", h.availableItems)
			r.Get("/{id}", h.getItem)
			r.Post("/", h.createItem)
			r.Put("/{id}", h.updateItem)
			r.Delete("/{id}", h.deleteItem)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Get("/{id}", h.getSale)
			r.Get("/{saleId}/items", h.saleItems)
			r.Post("/", h.createSale)
			r.Put("/{id}", h.updateSale)
			r.Delete("/{id}", h.deleteSale)
		})

		r.Route("/solditems", func(r chi.Router) {
			r.Get("/", h.listSoldItems)
			r.Post("/", h.createSoldItem)
			r.Put("/{saleId}/{itemId}", h.updateSoldItem)
			r.Delete("/{saleId}/{itemId}", h.deleteSoldItem)
		})

		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Get("/debug/tables", h.debugTables)
			protected.Post("/reset", h.resetDatabase)
		})
	})

	h.mountFrontend(r)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// mountFrontend serves the embedded static client. Unmatched non-API paths
// fall back to index.html so browser reloads keep working.
func (h *Handler) mountFrontend(r chi.Router) {
	public, err := fs.Sub(client.Files, "public")
	if err != nil {
		log.Fatalf("embedded frontend missing: %v", err)
	}
	fileServer := http.FileServer(http.FS(public))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/auth") {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		if path != "/" {
			if _, err := fs.Stat(public, strings.TrimPrefix(path, "/")); err == nil {
				fileServer.ServeHTTP(w, req)
				return
			}
		}
		index, err := fs.ReadFile(public, "index.html")
		if err != nil {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(index)
	})
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

// respondError is the read-endpoint error shape.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure is the mutation envelope with success=false.
func respondFailure(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

// respondStoreError maps a classified store failure onto the mutation
// envelope. Unclassified errors are logged server-side and surfaced as a
// generic 500 so internals never leak to the client.
func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	var se *store.Error
	if errors.As(err, &se) {
		status := http.StatusBadRequest
		if se.Kind == store.KindNotFound {
			status = http.StatusNotFound
		}
		respondFailure(w, status, se.Message)
		return
	}
	log.Printf("%s: %v", fallback, err)
	respondFailure(w, http.StatusInternalServerError, fallback)
}
