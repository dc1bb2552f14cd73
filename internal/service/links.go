// Package service implements link creation and lookup on top of a LinkStorage.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/metrics"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"github.com/KretovDmitry/shortlinks/internal/repository"
	"github.com/KretovDmitry/shortlinks/internal/shorturl"
	"github.com/asaskevich/govalidator"
)

// ErrInvalidURL is returned when URL validation is enabled and fails.
var ErrInvalidURL = fmt.Errorf("%w: invalid url", errs.ErrInvalidRequest)

// Options tune link creation.
type Options struct {
	// GenerateCodes derives a code from the URL when none is given.
	GenerateCodes bool
	// ValidateURLs rejects targets that are not URLs.
	ValidateURLs bool
}

// LinkService reads links from the storage on every call.
// Creation is serialized so concurrent requests can't lose updates.
type LinkService struct {
	store  repository.LinkStorage
	logger logger.Logger
	opts   Options
	// mu guards the load-mutate-save sequence.
	mu sync.Mutex
}

// New creates a link service, ensuring that the dependencies are valid values.
func New(store repository.LinkStorage, logger logger.Logger, opts Options) (*LinkService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	return &LinkService{
		store:  store,
		logger: logger,
		opts:   opts,
	}, nil
}

// Shorten maps code to url, replacing any previous mapping of the code,
// and returns the code that was stored.
func (s *LinkService) Shorten(ctx context.Context, url, code string) (string, error) {
	if s.opts.ValidateURLs && !govalidator.IsURL(url) {
		return "", ErrInvalidURL
	}

	if code == "" && s.opts.GenerateCodes {
		code = shorturl.Generate(url)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	if previous, ok := links[code]; ok && previous != url {
		metrics.LinksOverwrittenTotal.Inc()
		s.logger.With(ctx, "code", code).
			Infof("overwriting %q with %q", previous, url)
	}
	links[code] = url

	if err = s.save(ctx, links); err != nil {
		return "", err
	}

	metrics.LinksCreatedTotal.Inc()

	return code, nil
}

// Resolve returns the URL the code points to.
// Unknown codes and codes mapped to an empty URL give errs.ErrNotFound.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	links, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	url, ok := links[code]
	if !ok || url == "" {
		metrics.LookupMissesTotal.Inc()
		return "", fmt.Errorf("%q: %w", code, errs.ErrNotFound)
	}

	metrics.RedirectsTotal.Inc()

	return url, nil
}

// Links returns every stored link. The map is never nil on success.
func (s *LinkService) Links(ctx context.Context) (models.Links, error) {
	return s.load(ctx)
}

// Ping checks the health of the storage.
func (s *LinkService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *LinkService) load(ctx context.Context) (models.Links, error) {
	defer observe("load", time.Now())

	links, err := s.store.Load(ctx)
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("load links: %w", err)
	}
	if links == nil {
		links = models.NewLinks()
	}

	return links, nil
}

func (s *LinkService) save(ctx context.Context, links models.Links) error {
	defer observe("save", time.Now())

	if err := s.store.Save(ctx, links); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("save links: %w", err)
	}

	return nil
}

func observe(op string, start time.Time) {
	metrics.StorageOperationDuration.WithLabelValues(op).
		Observe(time.Since(start).Seconds())
}
