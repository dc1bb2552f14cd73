package handler

import (
	"net/http"
)

// Links responds with every stored link as a JSON object
// mapping short codes to URLs.
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{
//	    "ex1": "https://example.com"
//	}
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.Links(r.Context())
	if err != nil {
		h.jsonError(w, r, "failed to load links", err, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, links)
}
