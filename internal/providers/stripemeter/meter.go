// Package stripemeter reports metered usage for pro-plan scoring calls.
// Metering is best-effort: callers log failures and move on, the scoring
// response is never blocked on it.
package stripemeter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Options configures a Meter.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Meter posts usage records against a subscription item.
type Meter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// UsageRecorder is the metering capability the score handler depends on.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, subscriptionItemID string, quantity int) error
}

func New(opts Options) (*Meter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("stripe api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Meter{apiKey: strings.TrimSpace(opts.APIKey), baseURL: baseURL, client: client}, nil
}

// RecordUsage posts a single usage record. One attempt, no retries.
func (m *Meter) RecordUsage(ctx context.Context, subscriptionItemID string, quantity int) error {
	if strings.TrimSpace(subscriptionItemID) == "" {
		return errors.New("stripe: subscription item id is required")
	}
	form := url.Values{}
	form.Set("quantity", fmt.Sprintf("%d", quantity))
	form.Set("action", "increment")
	form.Set("timestamp", fmt.Sprintf("%d", time.Now().Unix()))

	endpoint := fmt.Sprintf("%s/subscription_items/%s/usage_records", m.baseURL, url.PathEscape(subscriptionItemID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("stripe: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("stripe: status %d", resp.StatusCode)
	}
	return nil
}

var _ UsageRecorder = (*Meter)(nil)
