package koreainvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
	"golang.org/x/sync/singleflight"
)

const tokenPath = "/oauth2/tokenP"

// TokenSource owns the single shared access token for the upstream brokerage
// API. The token has no tracked expiry: it is absent until the first
// successful refresh, then replaced wholesale on each later refresh. A failed
// refresh never clears a previously issued token.
type TokenSource struct {
	baseURL    string
	appKey     string
	appSecret  string
	httpClient *http.Client

	mu    sync.RWMutex
	token string

	group singleflight.Group
}

func NewTokenSource(baseURL, appKey, appSecret string) *TokenSource {
	return &TokenSource{
		baseURL:   baseURL,
		appKey:    appKey,
		appSecret: appSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL sets the base URL for the API (useful for testing).
func (s *TokenSource) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	AppSecret string `json:"appsecret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Token returns the cached token, refreshing first if none is held.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token != "" {
		return token, nil
	}
	return s.Refresh(ctx)
}

// Refresh obtains a new token from the upstream token endpoint and stores it.
// Concurrent refreshes collapse into a single upstream call so a thundering
// herd of requests cannot burn the upstream rate limit.
func (s *TokenSource) Refresh(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *TokenSource) refresh(ctx context.Context) (string, error) {
	body, err := json.Marshal(tokenRequest{
		GrantType: "client_credentials",
		AppKey:    s.appKey,
		AppSecret: s.appSecret,
	})
	if err != nil {
		return "", &marketdata.AuthError{Cause: fmt.Errorf("encoding token request: %w", err)}
	}

	reqURL := s.baseURL + tokenPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", &marketdata.AuthError{Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &marketdata.AuthError{Cause: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &marketdata.AuthError{Status: resp.StatusCode}
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", &marketdata.AuthError{Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	if tokenResp.AccessToken == "" {
		return "", &marketdata.AuthError{Cause: fmt.Errorf("token endpoint returned empty access_token")}
	}

	s.mu.Lock()
	s.token = tokenResp.AccessToken
	s.mu.Unlock()

	slog.Info("Brokerage access token refreshed")
	return tokenResp.AccessToken, nil
}

// Invalidate drops the cached token so the next call refreshes. Callers use
// this after observing an upstream 401; the gateway itself never retries.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// HasToken reports whether a token is currently cached.
func (s *TokenSource) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
