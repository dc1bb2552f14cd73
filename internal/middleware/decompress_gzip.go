package middleware

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KretovDmitry/shortlinks/internal/logger"
)

// compressReader implements ReadCloser interface
// and replaces Read method with a decompression one
type compressReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("new gzip reader: %w", err)
	}

	return &compressReader{
		r:  r,
		zr: zr,
	}, nil
}

func (c compressReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

func (c *compressReader) Close() error {
	if err := c.r.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return c.zr.Close()
}

// Unzip decides whether or not to decompress request judging by content encoding.
// A body announced as gzip that can't be read as such gets 400.
func Unzip(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			cr, err := newCompressReader(r.Body)
			if err != nil {
				log.With(r.Context()).Debugf("unzip request body: %v", err)
				http.Error(w, "invalid gzip body", http.StatusBadRequest)
				return
			}
			defer func() {
				if err = cr.Close(); err != nil {
					log.With(r.Context()).Errorf("close compress reader: %v", err)
				}
			}()

			r.Body = cr
			r.Header.Del("Content-Encoding")

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}
