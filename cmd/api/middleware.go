package main

import (
	"errors"
	"net/http"
	"net/url"
)

const sessionCookieName = "admin_session"

const adminLoginPath = "/admin/login"

func (app *application) sessionTokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// AdminSessionMiddleware gates the admin JSON API. Requests without a valid
// session cookie get a 401 before any handler logic runs.
func (app *application) AdminSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.authenticator.VerifySessionToken(app.sessionTokenFromRequest(r)) {
			app.unauthorizedErrorResponse(w, r, errors.New("missing or invalid admin session"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loginRateLimitMiddleware caps login attempts per source IP. The admin
// passcode is a single shared secret, so unthrottled guessing would be
// worth an attacker's while.
func (app *application) loginRateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled && app.rateLimiter != nil {
			if allow, retryAfter := app.rateLimiter.Allow(r.RemoteAddr); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// adminPageGuard protects the server-rendered admin pages. Unauthenticated
// requests are redirected to the login page, carrying the originally
// requested path so login can forward the user back afterwards.
func (app *application) adminPageGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.authenticator.VerifySessionToken(app.sessionTokenFromRequest(r)) {
			next.ServeHTTP(w, r)
			return
		}

		loginURL := adminLoginPath + "?" + url.Values{"from": {r.URL.Path}}.Encode()
		http.Redirect(w, r, loginURL, http.StatusFound)
	})
}
