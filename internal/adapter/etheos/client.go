package etheos

import (
	"bytes"
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
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type ClientConfig struct {
	APIURL    string
	HotelCode string
	Timeout   time.Duration
	Breaker   gobreaker.Settings
}

// Client issues authenticated calls against the ETHEOS control API.
type Client struct {
	apiURL    string
	hotelCode string
	tokens    CredentialSource
	http      *circuitbreaker.HTTPClient
	log       *zap.Logger
}

func NewClient(cfg ClientConfig, tokens CredentialSource, httpClient *http.Client, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	settings := cfg.Breaker
	if settings.Name == "" {
		settings.Name = "etheos-gateway"
	}

	return &Client{
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		hotelCode: cfg.HotelCode,
		tokens:    tokens,
		http:      circuitbreaker.NewHTTPClient(httpClient, settings, log),
		log:       log,
	}
}

var _ ports.DeviceGateway = (*Client)(nil)

// ControlDevice posts body to /{hotelCode}/control/{path}.
func (c *Client) ControlDevice(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s/control/%s", c.apiURL, c.hotelCode, strings.TrimPrefix(path, "/"))
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// QueryDevices returns the room configuration, including its devices.
func (c *Client) QueryDevices(ctx context.Context, roomID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s/control/rooms/%s", c.apiURL, c.hotelCode, url.PathEscape(roomID))
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	cred, err := c.tokens.Credential(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, method, endpoint, payload, cred)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Info("Gateway rejected credential, refreshing", zap.String("url", endpoint))
		if cred, err = c.tokens.Refresh(ctx, cred); err != nil {
			return nil, fmt.Errorf("failed to refresh credential: %w", err)
		}
		if resp, err = c.send(ctx, method, endpoint, payload, cred); err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}
	return json.RawMessage(resp.Body), nil
}

// send performs one attempt. Transport failures and 5xx count against the breaker.
func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, cred Credential) (*circuitbreaker.Response, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := c.http.Send(ctx, method, endpoint, header, payload)
	var serverErr *circuitbreaker.ServerError
	if errors.As(err, &serverErr) {
		return nil, &StatusError{StatusCode: serverErr.StatusCode, Body: serverErr.Body}
	}
	return resp, err
}
