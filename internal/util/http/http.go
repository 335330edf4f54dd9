// Package http provides HTTP utilities for fetching remote images.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmylchreest/beadgrid/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "beadgrid"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps the size of a downloaded body.
	DefaultMaxBytes = 50 << 20
)

// ErrTooLarge is returned when a response body exceeds the configured limit.
var ErrTooLarge = errors.New("response body too large")

// FetchOptions configures HTTP fetch behavior.
type FetchOptions struct {
	// Timeout specifies the HTTP request timeout.
	// If zero, DefaultTimeout is used.
	Timeout time.Duration

	// MaxBytes limits the body size. If zero, DefaultMaxBytes is used.
	MaxBytes int64

	// Headers specifies additional HTTP headers to send with the request.
	Headers map[string]string

	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch retrieves content from a URL with context and timeout support.
// It sets the User-Agent header and rejects non-200 responses and bodies
// larger than the configured limit.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", UserAgentName, version.Version))
	req.Header.Set("Accept", "image/*")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}

	return data, nil
}
