package http

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
)

// StoreProbe answers whether the relational store is currently reachable.
type StoreProbe interface {
	Available(ctx context.Context) bool
}

// HubStats reports live room/connection counts.
type HubStats interface {
	Stats() (rooms, clients int)
}

// Handler serves the non-core plumbing: health probe, hub stats, and the
// static dev client.
type Handler struct {
	staticDir string
	store     StoreProbe
	hub       HubStats
}

func NewHandler(staticDir string, store StoreProbe, hub HubStats) *Handler {
	return &Handler{staticDir: staticDir, store: store, hub: hub}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"has_ws": true,
		"db":     h.store == nil || h.store.Available(r.Context()),
	})
}

// GET /stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rooms, clients := h.hub.Stats()
	writeJSON(w, http.StatusOK, map[string]int{
		"rooms":   rooms,
		"clients": clients,
	})
}
