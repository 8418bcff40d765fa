package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Swapped out by tests.
var httpClient = http.DefaultClient

// maxCatalogSize caps the remote response body. The real catalog is a
// few KiB; anything larger is not a catalog.
const maxCatalogSize = 1 << 20

// Fetch downloads and validates the catalog from url within timeout.
// The returned catalog is tagged SourceRemote. Fetch never falls back;
// callers that want fallback semantics use Load.
func Fetch(ctx context.Context, url string, timeout time.Duration) (*Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching catalog: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return Parse(data, SourceRemote)
}
