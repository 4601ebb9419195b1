package api

import (
	"net/http"
	"time"

	"github.com/erazemk/shramba/internal/db"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(database *db.DB, now func() time.Time) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: database, Now: now}

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)

	return mux
}
