// Package recaptcha verifies Google reCAPTCHA tokens over the
// siteverify endpoint.
package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is Google's token verification endpoint.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks challenge tokens against the provider. A verifier
// without a configured secret reports itself unavailable.
type Verifier struct {
	httpClient *http.Client
	endpoint   string
	secret     string
}

// Config carries the verifier's dependencies.
type Config struct {
	HTTPClient *http.Client
	Endpoint   string
	Secret     string
}

// New constructs a Verifier. Endpoint falls back to DefaultEndpoint.
func New(cfg Config) *Verifier {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Verifier{
		httpClient: httpClient,
		endpoint:   endpoint,
		secret:     strings.TrimSpace(cfg.Secret),
	}
}

// Available reports whether the provider is installed and enabled.
func (v *Verifier) Available() bool {
	return v != nil && v.secret != ""
}

// Verify checks one token. A single synchronous call, no retries.
func (v *Verifier) Verify(ctx context.Context, token string) (bool, error) {
	if !v.Available() {
		return false, fmt.Errorf("recaptcha: verifier not configured")
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("recaptcha: build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("recaptcha: verify request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return false, fmt.Errorf("recaptcha: verify returned status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("recaptcha: decode verify response: %w", err)
	}
	return payload.Success, nil
}
