package etheos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/observability/telemetry"
)

// Credential is the gateway access token and its renewal id.
type Credential struct {
	AccessToken string `json:"token"`
	RenewID     string `json:"renew_id"`
}

// CredentialSource hands out gateway credentials.
type CredentialSource interface {
	Credential(ctx context.Context) (Credential, error)
	Refresh(ctx context.Context, stale Credential) (Credential, error)
}

// TokenManager owns the gateway credential for the lifetime of the process.
// The credential is replaced as a whole; concurrent refreshes share one call.
type TokenManager struct {
	authURL  string
	username string
	password string
	timeout  time.Duration
	client   *http.Client
	log      *zap.Logger

	mu      sync.RWMutex
	current *Credential
	group   singleflight.Group
}

type TokenManagerConfig struct {
	AuthURL  string
	Username string
	Password string
	Timeout  time.Duration
}

func NewTokenManager(cfg TokenManagerConfig, client *http.Client, log *zap.Logger) *TokenManager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &TokenManager{
		authURL:  strings.TrimRight(cfg.AuthURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		timeout:  cfg.Timeout,
		client:   client,
		log:      log,
	}
}

// Credential returns the cached credential, logging in on first use.
func (m *TokenManager) Credential(ctx context.Context) (Credential, error) {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()

	if cur != nil {
		return *cur, nil
	}
	return m.refresh(ctx, nil)
}

// Refresh replaces stale with a new credential. If stale was already replaced
// by another caller the current credential is returned without a remote call.
func (m *TokenManager) Refresh(ctx context.Context, stale Credential) (Credential, error) {
	return m.refresh(ctx, &stale)
}

// refresh collapses callers holding the same stale token into one flight.
// A caller with a different stale token never joins it, so it cannot be
// handed back the credential it is trying to replace.
func (m *TokenManager) refresh(ctx context.Context, stale *Credential) (Credential, error) {
	key := "login"
	if stale != nil {
		key = "renew:" + stale.AccessToken
	}
	ch := m.group.DoChan(key, func() (interface{}, error) {
		m.mu.RLock()
		cur := m.current
		m.mu.RUnlock()

		if cur != nil && (stale == nil || *cur != *stale) {
			return *cur, nil
		}

		// The flight is shared, so one caller's cancellation must not fail the others.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		var (
			next Credential
			err  error
		)
		if cur != nil {
			next, err = m.renew(rctx, *cur)
			if err != nil {
				m.log.Warn("Gateway token renew failed, logging in again", zap.Error(err))
				next, err = m.fetch(rctx)
			}
		} else {
			next, err = m.fetch(rctx)
		}
		if err != nil {
			return Credential{}, err
		}

		m.mu.Lock()
		m.current = &next
		m.mu.Unlock()
		return next, nil
	})

	select {
	case <-ctx.Done():
		return Credential{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Credential{}, res.Err
		}
		return res.Val.(Credential), nil
	}
}

func (m *TokenManager) fetch(ctx context.Context) (Credential, error) {
	cred, err := m.post(ctx, m.authURL+"/tokens", map[string]string{
		"username": m.username,
		"password": m.password,
	})
	if err != nil {
		telemetry.GatewayTokenRefreshTotal.WithLabelValues("fetch", "error").Inc()
		return Credential{}, fmt.Errorf("%w: login: %w", ErrAuthFailed, err)
	}
	telemetry.GatewayTokenRefreshTotal.WithLabelValues("fetch", "ok").Inc()
	m.log.Info("Gateway token obtained")
	return cred, nil
}

func (m *TokenManager) renew(ctx context.Context, cur Credential) (Credential, error) {
	if cur.RenewID == "" {
		return Credential{}, fmt.Errorf("no renew id")
	}
	endpoint := fmt.Sprintf("%s/tokens/%s/renew", m.authURL, url.PathEscape(cur.AccessToken))
	cred, err := m.post(ctx, endpoint, map[string]string{"renew_id": cur.RenewID})
	if err != nil {
		telemetry.GatewayTokenRefreshTotal.WithLabelValues("renew", "error").Inc()
		return Credential{}, err
	}
	telemetry.GatewayTokenRefreshTotal.WithLabelValues("renew", "ok").Inc()
	m.log.Info("Gateway token renewed")
	return cred, nil
}

func (m *TokenManager) post(ctx context.Context, endpoint string, body interface{}) (Credential, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Credential{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Credential{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return Credential{}, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Credential{}, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if cred.AccessToken == "" {
		return Credential{}, &domain.ContractError{Provider: "etheos-auth", Field: "token"}
	}
	return cred, nil
}
