// Package handler serves the HTTP interface of the link shortener.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KretovDmitry/shortlinks/internal/config"
	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/middleware"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// minCompressLength is the smallest response body worth compressing.
const minCompressLength = 256

// LinkService is what the handlers need from the link service.
type LinkService interface {
	Shorten(ctx context.Context, url, code string) (string, error)
	Resolve(ctx context.Context, code string) (string, error)
	Links(ctx context.Context) (models.Links, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	service      LinkService
	logger       logger.Logger
	publicDir    string
	maxBodyBytes int64
}

// New constructs a new handler, ensuring that the dependencies are valid values.
func New(service LinkService, logger logger.Logger, config *config.Config) (*Handler, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: service", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}

	return &Handler{
		service:      service,
		logger:       logger,
		publicDir:    config.PublicDir,
		maxBodyBytes: config.Shortener.MaxBodyBytes,
	}, nil
}

// Register sets up the routes and middlewares on r and returns it.
func (h *Handler) Register(r chi.Router) http.Handler {
	r.Use(
		middleware.Recover(h.logger),
		middleware.AccessLog(h.logger),
		middleware.Metrics,
		middleware.Compress(minCompressLength),
		middleware.Unzip(h.logger),
	)

	r.Get("/", h.Index)
	r.Get("/style.css", h.Stylesheet)
	r.Get("/links", h.Links)
	r.Get("/api/*", h.Redirect)
	r.Post("/shorten", h.Shorten)
	r.Get("/ping", h.Ping)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	return r
}

// textError writes a plain text error response.
// Server-side errors are logged.
func (h *Handler) textError(w http.ResponseWriter, r *http.Request, message string, err error, code int) {
	if code >= http.StatusInternalServerError {
		h.logger.With(r.Context()).Errorf("%s: %v", message, err)
	}
	http.Error(w, message, code)
}

type errorResponse struct {
	Message string `json:"message"`
}

// jsonError writes a JSON error response of the form {"message": "..."}.
// Server-side errors are logged.
func (h *Handler) jsonError(w http.ResponseWriter, r *http.Request, message string, err error, code int) {
	if code >= http.StatusInternalServerError {
		h.logger.With(r.Context()).Errorf("%s: %v", message, err)
	} else {
		message = fmt.Sprintf("%s: %s", message, err)
	}
	h.writeJSON(w, r, code, errorResponse{Message: message})
}

// writeJSON encodes payload as the response body with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		h.textError(w, r, "failed to encode response", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(b); err != nil {
		h.logger.With(r.Context()).Debugf("write response: %v", err)
	}
}
