package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookieName = "sid"

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

// HandleSessionCookie reads the session id cookie, minting a new one when it
// is absent or unusable. Notifications are scoped by this id.
func HandleSessionCookie(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err == nil && c.Value != "" {
		return c.Value
	}
	sessionId := uuid.NewString()
	setSessionCookie(w, r, sessionId)
	return sessionId
}
