package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]string

func (s stubVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if uid, ok := s[token]; ok {
		return uid, nil
	}
	return "", fmt.Errorf("unknown token")
}

type stubLimiter struct {
	allowed bool
	wait    time.Duration
	err     error
	calls   []string
}

func (s *stubLimiter) Allow(ctx context.Context, userID, action string) (bool, time.Duration, error) {
	s.calls = append(s.calls, userID+":"+action)
	return s.allowed, s.wait, s.err
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, UID(c))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthMiddleware(stubVerifier{"good": "alice"})
	h := auth.Authenticate(okHandler)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/bids", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, h(c))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "alice", rec.Body.String())
			} else {
				assert.Equal(t, "auth-required", errorCode(t, rec))
			}
		})
	}
}

func runLimited(t *testing.T, limiter *stubLimiter, uid string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bids", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("uid", uid)
	}

	var mw echo.MiddlewareFunc
	if limiter == nil {
		mw = UserActionRateLimit(nil, "place_bid")
	} else {
		mw = UserActionRateLimit(limiter, "place_bid")
	}
	require.NoError(t, mw(okHandler)(c))
	return rec
}

func TestUserActionRateLimitBlocks(t *testing.T) {
	limiter := &stubLimiter{allowed: false, wait: 2500 * time.Millisecond}

	rec := runLimited(t, limiter, "alice")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))
	assert.Equal(t, "too-many-requests", errorCode(t, rec))
	assert.Equal(t, []string{"alice:place_bid"}, limiter.calls)
}

func TestUserActionRateLimitPassesThrough(t *testing.T) {
	rec := runLimited(t, &stubLimiter{allowed: true}, "alice")
	assert.Equal(t, http.StatusOK, rec.Code)

	// limiter errors fail open
	rec = runLimited(t, &stubLimiter{err: fmt.Errorf("redis down")}, "alice")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runLimited(t, nil, "alice")
	assert.Equal(t, http.StatusOK, rec.Code)

	limiter := &stubLimiter{}
	rec = runLimited(t, limiter, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, limiter.calls)
}
