// Package filestore keeps links in a single pretty-printed JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/models"
)

// LinkRepository reads and rewrites the whole file on every call.
// Nothing is cached between calls.
type LinkRepository struct {
	// path is the location of the JSON file.
	path string
	// logger is used to report a corrupt file.
	logger logger.Logger
}

// NewLinkRepository creates a file based repository.
// The directory holding the file is created if it does not exist.
func NewLinkRepository(path string, logger logger.Logger) (*LinkRepository, error) {
	if path == "" {
		return nil, errors.New("empty file storage path")
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &LinkRepository{path: path, logger: logger}, nil
}

// Load returns the links stored in the file.
// A missing or unparsable file yields an empty map and no error.
// Entries whose value is not a string are skipped.
func (r *LinkRepository) Load(_ context.Context) (models.Links, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warnf("read link file %q: %v", r.path, err)
		}
		return models.NewLinks(), nil
	}

	var raw map[string]json.RawMessage
	if err = json.Unmarshal(data, &raw); err != nil {
		r.logger.Warnf("parse link file %q: %v", r.path, err)
		return models.NewLinks(), nil
	}

	links := make(models.Links, len(raw))
	for code, value := range raw {
		var url string
		if err = json.Unmarshal(value, &url); err != nil {
			r.logger.Warnf("skip entry %q of link file %q: %v", code, r.path, err)
			continue
		}
		links[code] = url
	}

	return links, nil
}

// Save replaces the file contents with the given links.
// The data lands in a temporary file first and is renamed over the target.
func (r *LinkRepository) Save(_ context.Context, links models.Links) error {
	if links == nil {
		links = models.NewLinks()
	}

	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal links: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	// no-op once the rename succeeded
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write links: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace link file: %w", err)
	}

	return nil
}

// Ping checks that the storage directory is still there.
func (r *LinkRepository) Ping(_ context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat storage directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Path returns the location of the backing file.
func (r *LinkRepository) Path() string {
	return r.path
}
