package koreainvest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
)

func TestTokenSource_Token_RefreshesOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth2/tokenP", r.URL.Path)

		var req tokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client_credentials", req.GrantType)
		assert.Equal(t, "test-app-key", req.AppKey)
		assert.Equal(t, "test-app-secret", req.AppSecret)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "token-1"}`))
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "test-app-key", "test-app-secret")

	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// second call within the same process hits the cache
	token, err = source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTokenSource_Refresh_FailureKeepsOldToken(t *testing.T) {
	fail := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"access_token": "token-1"}`))
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "key", "secret")

	_, err := source.Token(context.Background())
	require.NoError(t, err)
	require.True(t, source.HasToken())

	fail = true
	_, err = source.Refresh(context.Background())
	require.Error(t, err)

	var authErr *marketdata.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Status)

	// the previously issued token survives a failed refresh
	assert.True(t, source.HasToken())
	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestTokenSource_Refresh_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "key", "secret")

	_, err := source.Token(context.Background())
	require.Error(t, err)

	var authErr *marketdata.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.False(t, source.HasToken())
}

func TestTokenSource_Invalidate(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			_, _ = w.Write([]byte(`{"access_token": "token-1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token": "token-2"}`))
	}))
	defer server.Close()

	source := NewTokenSource(server.URL, "key", "secret")

	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	source.Invalidate()
	assert.False(t, source.HasToken())

	token, err = source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
