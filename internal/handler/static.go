package handler

import (
	"net/http"
	"os"
	"path/filepath"
)

const (
	indexFile      = "index.html"
	stylesheetFile = "style.css"
)

// Index serves the homepage.
//
// Method: GET
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, indexFile, "text/html")
}

// Stylesheet serves the stylesheet of the homepage.
//
// Method: GET
func (h *Handler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, stylesheetFile, "text/css")
}

// serveStatic reads name from the public directory on every request.
// Any read failure is answered with 404.
func (h *Handler) serveStatic(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := os.ReadFile(filepath.Join(h.publicDir, name))
	if err != nil {
		h.logger.With(r.Context(), "file", name).Warnf("read static file: %v", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(b); err != nil {
		h.logger.With(r.Context()).Debugf("write static file: %v", err)
	}
}
