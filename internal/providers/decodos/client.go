// Package decodos wraps the Decodos scraping API: one outbound call per
// scoring request, single attempt, no retries. The provider returns a
// different JSON shape per platform; normalize.go flattens each into
// domain.ContentMetadata.
package decodos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"effortnet/internal/domain"
	"effortnet/internal/platform"
)

const (
	defaultTimeout = 15 * time.Second
	providerName   = "decodos"
)

// Options configures a Client.
type Options struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client issues scrape requests against the Decodos API.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// FetchRequest names the content to scrape. SourceType may be empty or
// "unknown", in which case the platform is inferred from the URL.
type FetchRequest struct {
	URL        string
	SourceType string
}

type scrapeRequest struct {
	URL    string `json:"url"`
	Target string `json:"target"`
	Parse  bool   `json:"parse"`
}

type scrapeEnvelope struct {
	Results []struct {
		Content json.RawMessage `json:"content"`
	} `json:"results"`
}

// NewClient validates options and builds a Client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("decodos token is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://scraper-api.decodos.com/v2"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{token: strings.TrimSpace(opts.Token), baseURL: baseURL, client: client}, nil
}

// Resolve returns the registry entry the request should be scraped with. A
// declared source type that disagrees with the URL is a hard error; an
// absent or "unknown" declaration falls back to detection.
func Resolve(req FetchRequest) (platform.Entry, error) {
	detected := platform.Detect(req.URL)
	declared := domain.Platform(strings.TrimSpace(strings.ToLower(req.SourceType)))
	if declared != "" && declared != domain.PlatformUnknown {
		if _, ok := platform.Lookup(declared); !ok {
			return platform.Entry{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedPlatform, declared)
		}
		if detected != domain.PlatformUnknown && detected != declared {
			return platform.Entry{}, fmt.Errorf("%w: declared %q, url looks like %q", domain.ErrPlatformMismatch, declared, detected)
		}
		entry, _ := platform.Lookup(declared)
		return entry, nil
	}
	if detected == domain.PlatformUnknown {
		return platform.Entry{}, fmt.Errorf("%w: could not detect platform from url", domain.ErrUnsupportedPlatform)
	}
	entry, _ := platform.Lookup(detected)
	return entry, nil
}

// Fetch scrapes the URL and normalizes the provider response into the flat
// metadata record. Non-2xx responses and unrecognized payload shapes map to
// domain.ErrUpstreamFetch.
func (c *Client) Fetch(ctx context.Context, req FetchRequest) (*domain.ContentMetadata, error) {
	entry, err := Resolve(req)
	if err != nil {
		return nil, err
	}

	payload := scrapeRequest{URL: req.URL, Target: entry.ScrapeTarget, Parse: true}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", providerName, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", providerName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+c.token)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamFetch, providerName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamFetch, providerName, resp.StatusCode)
	}

	var envelope scrapeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %v", domain.ErrUpstreamFetch, providerName, err)
	}
	if len(envelope.Results) == 0 || len(envelope.Results[0].Content) == 0 {
		return nil, fmt.Errorf("%w: %s returned no results", domain.ErrUpstreamFetch, providerName)
	}

	meta, err := normalize(entry.Tag, req.URL, envelope.Results[0].Content)
	if err != nil {
		return nil, err
	}
	return meta, nil
}
