// Package models contains the data models for the shortlinks application.
package models

// Links maps a short code to the URL it redirects to.
// Keys are unique by construction, the last write wins.
type Links map[string]string

// NewLinks returns an empty, non-nil Links map.
func NewLinks() Links {
	return make(Links)
}

// Clone returns a shallow copy of the map. A nil receiver yields
// an empty, non-nil map.
func (l Links) Clone() Links {
	c := make(Links, len(l))
	for code, url := range l {
		c[code] = url
	}
	return c
}

type (
	// ShortenRequest is the payload accepted by POST /shorten.
	ShortenRequest struct {
		URL       string `json:"url"`
		ShortCode string `json:"shortCode"`
	}

	// ShortenResponse is the confirmation returned by POST /shorten.
	ShortenResponse struct {
		Message   string `json:"message"`
		ShortCode string `json:"shortCode"`
	}
)
