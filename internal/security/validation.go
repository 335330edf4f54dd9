// Package security provides bounds checks for untrusted input.
package security

import (
	"fmt"
	"io"
)

// MaxDecompressedSize is the default limit for decompressed project files.
const MaxDecompressedSize = 64 * 1024 * 1024

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// This prevents decompression bomb attacks when loading compressed files.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, fmt.Errorf("decompression size limit exceeded")
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}

// SafeUint8FromUint64 safely converts uint64 to uint8 with bounds checking.
func SafeUint8FromUint64(val uint64) uint8 {
	if val > 255 {
		return 255
	}
	return uint8(val)
}
