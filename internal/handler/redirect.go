package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/go-chi/chi/v5"
)

// msgShortURLNotFound is the body of a lookup miss.
const msgShortURLNotFound = "Short URL not found"

// Redirect serves a redirect to the URL the short code points to.
//
// The code is everything after /api/ and may contain slashes.
//
// Response:
//
//	HTTP/1.1 302 Found
//	Location: https://example.com
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := shortCode(r)

	target, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			h.textError(w, r, msgShortURLNotFound, err, http.StatusNotFound)
			return
		}
		h.textError(w, r, "failed to resolve short url", err, http.StatusInternalServerError)
		return
	}

	// Location is set by hand to send the target verbatim.
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
}

// shortCode extracts the code from the request path.
// chi matches against the raw path when it is set, leaving escapes in place.
func shortCode(r *http.Request) string {
	code := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return code
	}
	if unescaped, err := url.PathUnescape(code); err == nil {
		return unescaped
	}
	return code
}
