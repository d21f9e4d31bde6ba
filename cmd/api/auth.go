package main

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"furnish/internal/auth"
)

type LoginPayload struct {
	Passcode string `json:"passcode"`
}

// setSessionCookie stores the admin session token as an HttpOnly cookie so
// browser JS can never read it.
func (app *application) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTTL / time.Second),
	})
}

func (app *application) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// loginHandler godoc
//
//	@Summary	Exchange the shared admin passcode for a session cookie
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		LoginPayload	true	"Admin passcode"
//	@Success	200		{object}	map[string]bool
//	@Failure	401		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, errors.New("Invalid payload."))
		return
	}

	expected := app.config.admin.passcode
	if expected == "" {
		app.internalServerError(w, r, errors.New("ADMIN_PANEL_PASSCODE is not configured"))
		return
	}

	given := strings.TrimSpace(payload.Passcode)
	if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
		app.logger.Warnw("failed admin login attempt", "remote", r.RemoteAddr)
		writeJSONError(w, http.StatusUnauthorized, "Invalid passcode.")
		return
	}

	token, err := app.authenticator.IssueSessionToken()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// logoutHandler godoc
//
//	@Summary	Clear the admin session cookie
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	map[string]bool
//	@Router		/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
