// Package session implements the cookie-backed, request-scoped session that
// carries the shopper's cart id between requests.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"hydroshop/storefront/pkg/crypto"
)

// KeyCartID holds the id of the shopper's remote cart.
const KeyCartID = "cartId"

// Session is a request-scoped key/value view. It is not safe for concurrent use.
type Session struct {
	id     string
	values map[string]string
}

// New returns an empty session that has never been committed.
func New() *Session {
	return &Session{values: make(map[string]string)}
}

// ID is empty for cookie-only sessions.
func (s *Session) ID() string { return s.id }

func (s *Session) Get(key string) string { return s.values[key] }

func (s *Session) Set(key, value string) { s.values[key] = value }

// CartID is shorthand for Get(KeyCartID).
func (s *Session) CartID() string { return s.Get(KeyCartID) }

// Manager loads sessions from requests and commits them back into a
// Set-Cookie header.
type Manager interface {
	// Load never fails on a missing, expired, or tampered cookie: those yield
	// a fresh session. Errors are reserved for backend failures.
	Load(r *http.Request) (*Session, error)
	Commit(ctx context.Context, s *Session) (*http.Cookie, error)
}

type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	Keys       crypto.CookieKeys
}

func newCodec(opts Options) *securecookie.SecureCookie {
	sc := securecookie.New(opts.Keys.HashKey, opts.Keys.BlockKey)
	sc.MaxAge(int(opts.MaxAge / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return sc
}

// newCookie builds the Set-Cookie value. A zero MaxAge yields a cookie that
// lasts for the browser session.
func newCookie(opts Options, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     opts.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.MaxAge > 0 {
		c.MaxAge = int(opts.MaxAge / time.Second)
		c.Expires = time.Now().Add(opts.MaxAge)
	}
	return c
}
