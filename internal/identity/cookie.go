package identity

import "net/http"

// visitorCookieMaxAge keeps the durable identifier for a year; the
// browser refreshes it on every visit.
const visitorCookieMaxAge = 365 * 24 * 60 * 60

// CookieStore adapts a storage slot onto HTTP cookies for one
// request/response exchange. Values written during the exchange are
// readable back immediately, matching the synchronous check-then-set
// the derivation relies on.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	maxAge int
	staged map[string]string
}

// NewDurableCookieStore returns a Store backed by a long-lived cookie.
func NewDurableCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w, maxAge: visitorCookieMaxAge, staged: map[string]string{}}
}

// NewSessionCookieStore returns a Store backed by a browser-session
// cookie (no Max-Age, cleared when the browsing context ends).
func NewSessionCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w, staged: map[string]string{}}
}

func (c *CookieStore) Get(key string) (string, bool) {
	if v, ok := c.staged[key]; ok {
		return v, true
	}
	ck, err := c.r.Cookie(key)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c *CookieStore) Set(key, value string) {
	c.staged[key] = value
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   c.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
