// Package shorturl derives short codes from URLs.
package shorturl

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/itchyny/base58-go"
)

// Generate produces a short code from the original URL.
// It utilizes base 58 algorithm to reduce confusion in character output
// (0OIl+/ are not used). The same URL always yields the same code.
func Generate(s string) string {
	urlHash := sha256.Sum256([]byte(s))
	generatedNumber := binary.BigEndian.Uint64(urlHash[:8])
	return string(base58.BitcoinEncoding.EncodeUint64(generatedNumber))
}
