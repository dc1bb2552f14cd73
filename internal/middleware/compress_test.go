package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeFilter_ShouldCompress(t *testing.T) {
	tests := []struct {
		header http.Header
		want   bool
	}{
		{
			contentTypeHeader(""),
			false,
		},
		{
			contentTypeHeader("application/json; charset=utf-8"),
			true,
		},
		{
			contentTypeHeader("text/html"),
			true,
		},
		{
			contentTypeHeader("text/css"),
			true,
		},
		{
			contentTypeHeader("image/png"),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.header.Get("Content-Type"), func(t *testing.T) {
			f := NewContentTypeFilter(CompressedContentTypes)
			assert.Equal(t, tt.want, f.ShouldCompress(tt.header))
		})
	}
}

func TestContentTypeFilterEmpty_ShouldCompress(t *testing.T) {
	t.Run("empty content type is allowed", func(t *testing.T) {
		header := contentTypeHeader("")
		e := NewContentTypeFilter([]string{""})
		assert.Equal(t, true, e.ShouldCompress(header))
	})
}

func TestCompress(t *testing.T) {
	payload := strings.Repeat("<p>short links</p>", 100)

	handler := Compress(256)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, payload)
	}))

	t.Run("client accepts gzip", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		res := w.Result()
		defer res.Body.Close()

		require.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
		zr, err := gzip.NewReader(res.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
	})

	t.Run("client does not accept gzip", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		res := w.Result()
		defer res.Body.Close()

		assert.Empty(t, res.Header.Get("Content-Encoding"))
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
	})
}

func contentTypeHeader(contentType string) http.Header {
	return http.Header{"Content-Type": []string{contentType}}
}
