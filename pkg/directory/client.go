// Package directory talks to the public company directory (Nomads) service.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const addTemplateLinkPath = "/api/company/add-template-link"

// ErrUpstream wraps every non-2xx answer from the directory service.
var ErrUpstream = errors.New("directory service error")

// Client is a thin HTTP client for the directory service. Calls are attempted once.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client with a traced transport and the given per-call timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type templateLinkRequest struct {
	CompanyName string `json:"companyName"`
	Link        string `json:"link"`
}

// RegisterTemplateLink attaches link to the company's directory listing.
func (c *Client) RegisterTemplateLink(ctx context.Context, companyName, link string) error {
	body, err := json.Marshal(templateLinkRequest{CompanyName: companyName, Link: link})
	if err != nil {
		return fmt.Errorf("directory: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+addTemplateLinkPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("directory: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory: add template link: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
