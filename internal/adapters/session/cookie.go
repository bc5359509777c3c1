package session

import (
	"net/http"
	"time"
)

// CookieName is the cookie carrying the session id.
const CookieName = "cfinsight_session"

// FromRequest returns the session id carried by r, if it is well formed.
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || !ValidID(c.Value) {
		return "", false
	}
	return c.Value, true
}

// Ensure returns the session id of r, issuing a new cookie when the
// request has none.
func Ensure(w http.ResponseWriter, r *http.Request, ttl time.Duration) string {
	if id, ok := FromRequest(r); ok {
		return id
	}
	id := NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
