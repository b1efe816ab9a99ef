package session

import (
	"context"
	"net/http"

	"github.com/gorilla/securecookie"
)

// cookieManager keeps every value inside the signed and encrypted cookie.
type cookieManager struct {
	opts  Options
	codec *securecookie.SecureCookie
}

func NewCookieManager(opts Options) Manager {
	return &cookieManager{opts: opts, codec: newCodec(opts)}
}

func (m *cookieManager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return New(), nil
	}
	values := make(map[string]string)
	if err := m.codec.Decode(m.opts.CookieName, c.Value, &values); err != nil {
		return New(), nil
	}
	return &Session{values: values}, nil
}

func (m *cookieManager) Commit(_ context.Context, s *Session) (*http.Cookie, error) {
	encoded, err := m.codec.Encode(m.opts.CookieName, s.values)
	if err != nil {
		return nil, err
	}
	return newCookie(m.opts, encoded), nil
}
