// Package cli implements the client side of kitreg: talking to a remote
// registry and rendering the catalog for the terminal.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kitreg/kitreg/internal/catalog"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/pkg/checksum"
)

// Client talks to a kitreg server over HTTP.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient builds a client for a registry base URL. The token may be empty
// for read-only use.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// PublishResult mirrors the server's publish response envelope.
type PublishResult struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Error   string                `json:"error,omitempty"`
	Record  *domain.CatalogRecord `json:"record,omitempty"`
}

// Publish streams the archive at path to the registry. The archive is
// digested locally first and the returned record's checksum must match it,
// so a corrupted upload never passes silently.
func (c *Client) Publish(ctx context.Context, path string) (*PublishResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	digest, err := checksum.SumReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to digest archive: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/api/v1/kits", f)
	if err != nil {
		return nil, err
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/gzip")
	req.Header.Set("X-File-Name", filepath.Base(path))
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: check the configured token", domain.ErrUnauthorized)
	}

	var result PublishResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode publish response (status %s): %w", resp.Status, err)
	}
	if !result.Success {
		return &result, fmt.Errorf("publish rejected: %s", result.Message)
	}
	if result.Record != nil && result.Record.Checksum != digest {
		return &result, fmt.Errorf("%w: sent %s, registry recorded %s",
			domain.ErrChecksumMismatch, digest, result.Record.Checksum)
	}
	return &result, nil
}

// List fetches one catalog page.
func (c *Client) List(ctx context.Context, owner string, limit, skip int) (catalog.Page, error) {
	q := url.Values{}
	if owner != "" {
		q.Set("owner", owner)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}

	endpoint := c.BaseURL + "/api/v1/kits"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return catalog.Page{}, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return catalog.Page{}, fmt.Errorf("list failed: status %s", resp.Status)
	}

	var page catalog.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return catalog.Page{}, fmt.Errorf("failed to decode catalog page: %w", err)
	}
	return page, nil
}
