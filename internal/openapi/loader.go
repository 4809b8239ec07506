// Package openapi derives feature descriptors from a backend OpenAPI
// document. The curated descriptors embedded in pkg/feature stay the source
// of truth for the stock features; this package exists so a deployment whose
// backend grows new generate endpoints can pick them up without a release.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// LoadOptions controls how Load resolves a document location.
type LoadOptions struct {
	// HTTPClient overrides the client used for URL locations.
	HTTPClient *http.Client
	// RequestTimeout bounds URL fetches when no client is supplied.
	RequestTimeout time.Duration
}

// Load reads a raw OpenAPI document from a file path or an http(s) URL.
func Load(ctx context.Context, location string, options LoadOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("openapi: context is required")
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("openapi: location is required")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return loadURL(ctx, location, options)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", location, err)
	}
	return data, nil
}

func loadURL(ctx context.Context, location string, options LoadOptions) ([]byte, error) {
	client := options.HTTPClient
	if client == nil {
		timeout := options.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi: fetch %s: %w", location, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi: fetch %s: unexpected status %d", location, res.StatusCode)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("openapi: read response: %w", err)
	}
	return data, nil
}
