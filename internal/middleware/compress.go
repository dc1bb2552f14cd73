package middleware

import (
	"net/http"

	"github.com/nanmu42/gzip"
	"github.com/signalsciences/ac/acascii"
)

// interface guards
var _ gzip.ResponseHeaderFilter = (*ContentTypeFilter)(nil)

// ContentTypeFilter judge via the response content type
//
// Omit this filter if you want to compress all content type.
type ContentTypeFilter struct {
	Types      *acascii.Matcher
	AllowEmpty bool
}

// NewContentTypeFilter builds a filter matching any of types.
// An empty string in types lets responses without a content type through.
func NewContentTypeFilter(types []string) *ContentTypeFilter {
	var (
		nonEmpty   = make([]string, 0, len(types))
		allowEmpty bool
	)

	for _, item := range types {
		if item == "" {
			allowEmpty = true
			continue
		}
		nonEmpty = append(nonEmpty, item)
	}

	return &ContentTypeFilter{
		Types:      acascii.MustCompileString(nonEmpty),
		AllowEmpty: allowEmpty,
	}
}

// ShouldCompress implements gzip.ResponseHeaderFilter interface
func (e *ContentTypeFilter) ShouldCompress(header http.Header) bool {
	contentType := header.Get("Content-Type")

	if contentType == "" {
		return e.AllowEmpty
	}

	return e.Types.MatchString(contentType)
}

// CompressedContentTypes are the types the service produces
// and worth compressing.
var CompressedContentTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"application/json",
}

// Compress gzips responses of at least minContentLength bytes
// for clients that accept gzip.
func Compress(minContentLength int64) func(next http.Handler) http.Handler {
	h := gzip.NewHandler(gzip.Config{
		CompressionLevel: gzip.DefaultCompression,
		MinContentLength: minContentLength,
		RequestFilter: []gzip.RequestFilter{
			gzip.NewCommonRequestFilter(),
		},
		ResponseHeaderFilter: []gzip.ResponseHeaderFilter{
			gzip.NewSkipCompressedFilter(),
			NewContentTypeFilter(CompressedContentTypes),
		},
	})
	return h.WrapHandler
}
