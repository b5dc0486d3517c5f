package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Page renders a template that needs no data, such as the about pages.
func (h *Handler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, &TemplateData{})
	}
}

// Healthz reports whether the database answers.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		logErr(r, err, "health check failed")
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status}) //nolint:errcheck
}

// ProtectFiles wraps a file server so that directories are never listed.
func (h *Handler) ProtectFiles(files http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			h.Render403(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
