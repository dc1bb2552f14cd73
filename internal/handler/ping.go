package handler

import (
	"errors"
	"net/http"

	"github.com/KretovDmitry/shortlinks/internal/errs"
)

// Ping checks the health of the link storage.
//
// Method: GET
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		if errors.Is(err, errs.ErrDBNotConnected) {
			h.textError(w, r, "DB not connected", err, http.StatusInternalServerError)
			return
		}
		h.textError(w, r, "connection error", err, http.StatusInternalServerError)
		return
	}
}

// NotFound answers every request no route matched,
// including known paths requested with another method.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}
