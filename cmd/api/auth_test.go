package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"furnish/internal/ratelimiter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rr.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("correct passcode sets session cookie", func(t *testing.T) {
		app := newTestApplication(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"passcode":"`+testPasscode+`"}`))
		rr := do(app, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())

		c := sessionCookieFrom(t, rr)
		require.NotNil(t, c, "session cookie must be set")
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 24*60*60, c.MaxAge)
		assert.True(t, app.authenticator.VerifySessionToken(c.Value))
	})

	t.Run("wrong passcode", func(t *testing.T) {
		app := newTestApplication(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"passcode":"nope"}`))
		rr := do(app, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid passcode."}`, rr.Body.String())
		assert.Nil(t, sessionCookieFrom(t, rr))
	})

	t.Run("unconfigured passcode is a server fault", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.config.admin.passcode = ""

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"passcode":"anything"}`))
		rr := do(app, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		app := newTestApplication(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{`))
		rr := do(app, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApplication(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rr := do(app, req)

	require.Equal(t, http.StatusOK, rr.Code)
	c := sessionCookieFrom(t, rr)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApplication(t, nil)
	app.config.rateLimiter = ratelimiter.Config{
		RequestsPerTimeFrame: 2,
		TimeFrame:            time.Minute,
		Enabled:              true,
	}
	app.rateLimiter = ratelimiter.NewFixedWindowLimiter(
		app.config.rateLimiter.RequestsPerTimeFrame,
		app.config.rateLimiter.TimeFrame,
	)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"passcode":"nope"}`))
		rr := do(app, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"passcode":"`+testPasscode+`"}`))
	rr := do(app, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}
