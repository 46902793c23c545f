package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/infrastructure/circuitbreaker"
)

// Config holds the settings shared by the Google REST adapters.
type Config struct {
	APIKey          string
	ProjectID       string
	DialogflowToken string
	SpeechURL       string
	TranslateURL    string
	TTSURL          string
	DialogflowURL   string
	SampleRate      int
	Timeout         time.Duration
	Breaker         gobreaker.Settings
	HTTPClient      *http.Client
}

// APIError is a non-2xx answer from a Google endpoint.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

type restClient struct {
	name string
	http *circuitbreaker.HTTPClient
	log  *zap.Logger
}

func newRESTClient(name string, cfg Config, log *zap.Logger) *restClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	settings := cfg.Breaker
	settings.Name = name

	return &restClient{
		name: name,
		http: circuitbreaker.NewHTTPClient(httpClient, settings, log),
		log:  log,
	}
}

// postJSON sends in as JSON and decodes the 2xx answer into out.
func (c *restClient) postJSON(ctx context.Context, endpoint string, header http.Header, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", c.name, err)
	}

	start := time.Now()
	resp, err := c.http.Send(ctx, http.MethodPost, endpoint, header, payload)
	if err != nil {
		c.log.Error("Provider call failed",
			zap.String("provider", c.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		var serverErr *circuitbreaker.ServerError
		if errors.As(err, &serverErr) {
			return &APIError{Provider: c.name, StatusCode: serverErr.StatusCode, Body: serverErr.Body}
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Provider: c.name, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	c.log.Debug("Provider call completed",
		zap.String("provider", c.name),
		zap.Duration("duration", time.Since(start)),
	)

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.name, err)
	}
	return nil
}

// withKey appends the API key as a query parameter, keeping any existing query.
func withKey(endpoint, apiKey string) string {
	if apiKey == "" {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + url.Values{"key": {apiKey}}.Encode()
}
