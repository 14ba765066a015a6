package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kitreg/kitreg/internal/domain"
)

// Fetcher retrieves raw archive bytes from an opaque locator. The pipeline
// performs no retries; bounding a slow fetch is the caller's concern.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// LocatorFetcher resolves file:// and http(s):// locators. A plain path with
// no scheme is treated as a local file.
type LocatorFetcher struct {
	Client *http.Client
}

// NewLocatorFetcher returns a fetcher with a sane default HTTP client.
func NewLocatorFetcher() *LocatorFetcher {
	return &LocatorFetcher{
		Client: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (f *LocatorFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidLocator, locator)
	}

	switch u.Scheme {
	case "", "file":
		p := u.Path
		if u.Scheme == "" {
			p = locator
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
		}
		return data, nil
	case "http", "https":
		return f.fetchHTTP(ctx, locator)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *LocatorFetcher) fetchHTTP(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLocator, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", domain.ErrDownloadFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	return data, nil
}

// IsLocal reports whether a locator points into the local filesystem.
func IsLocal(locator string) bool {
	return !strings.Contains(locator, "://") || strings.HasPrefix(locator, "file://")
}
