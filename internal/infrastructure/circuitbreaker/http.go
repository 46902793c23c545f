package circuitbreaker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// HTTPClient wraps an HTTP client with circuit breaker protection.
// Transport errors and 5xx answers count as failures. Any other answer is
// handed back as a Response, so 4xx never trips the breaker.
type HTTPClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// Response is a fully read answer with a status below 500.
type Response struct {
	StatusCode int
	Body       []byte
}

// ServerError is a 5xx answer.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, settings gobreaker.Settings, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	settings.OnStateChange = func(name string, from gobreaker.State, to gobreaker.State) {
		log.Warn("Circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return &HTTPClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

func (c *HTTPClient) Name() string {
	return c.breaker.Name()
}

func (c *HTTPClient) State() gobreaker.State {
	return c.breaker.State()
}

// Do executes an HTTP request with circuit breaker protection and reads the
// whole body.
func (c *HTTPClient) Do(req *http.Request) (*Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode >= 500 {
			return nil, &ServerError{StatusCode: resp.StatusCode, Body: string(data)}
		}
		return &Response{StatusCode: resp.StatusCode, Body: data}, nil
	})
	if err != nil {
		if IsCircuitOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
		}
		return nil, err
	}

	return result.(*Response), nil
}

// Send builds a request from method, endpoint and header and runs it through
// Do. A non-nil payload is sent as JSON.
func (c *HTTPClient) Send(ctx context.Context, method, endpoint string, header http.Header, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.Do(req)
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
