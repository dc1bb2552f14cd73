package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/models"
)

const msgShortened = "Shortened!"

// Shorten maps a short code to a URL, overwriting the code if it exists.
//
// Request:
//
//	POST /shorten
//	Content-Type: application/json
//	{
//	    "url": "https://example.com",
//	    "shortCode": "ex1"
//	}
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{
//	    "message": "Shortened!",
//	    "shortCode": "ex1"
//	}
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var payload *models.ShortenRequest
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&payload)
	if err == nil {
		err = expectEOF(dec)
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.jsonError(w, r, "request body too large", err, http.StatusRequestEntityTooLarge)
			return
		}
		h.jsonError(w, r, "failed to decode request", err, http.StatusBadRequest)
		return
	}
	if payload == nil {
		h.jsonError(w, r, "failed to decode request", errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	code, err := h.service.Shorten(r.Context(), payload.URL, payload.ShortCode)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRequest) {
			h.jsonError(w, r, "failed to shorten url", err, http.StatusBadRequest)
			return
		}
		h.jsonError(w, r, "failed to save link", err, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, models.ShortenResponse{
		Message:   msgShortened,
		ShortCode: code,
	})
}

// expectEOF fails when anything but whitespace follows the first JSON value.
func expectEOF(dec *json.Decoder) error {
	err := dec.Decode(&struct{}{})
	if errors.Is(err, io.EOF) {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: trailing data after request body", errs.ErrInvalidRequest)
}
