package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"hydroshop/storefront/internal/repository"
)

const storeKeyPrefix = "session:"

// storeManager keeps values in a StateStore; the cookie carries only the
// signed session id.
type storeManager struct {
	opts  Options
	codec *securecookie.SecureCookie
	store repository.StateStore
}

func NewStoreManager(opts Options, store repository.StateStore) Manager {
	return &storeManager{opts: opts, codec: newCodec(opts), store: store}
}

func (m *storeManager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return m.fresh(), nil
	}
	var id string
	if err := m.codec.Decode(m.opts.CookieName, c.Value, &id); err != nil || id == "" {
		return m.fresh(), nil
	}

	data, err := m.store.Get(r.Context(), storeKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return m.fresh(), nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return m.fresh(), nil
	}
	return &Session{id: id, values: values}, nil
}

func (m *storeManager) Commit(ctx context.Context, s *Session) (*http.Cookie, error) {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	data, err := json.Marshal(s.values)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, storeKeyPrefix+s.id, data, m.opts.MaxAge); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	encoded, err := m.codec.Encode(m.opts.CookieName, s.id)
	if err != nil {
		return nil, err
	}
	return newCookie(m.opts, encoded), nil
}

func (m *storeManager) fresh() *Session {
	s := New()
	s.id = uuid.NewString()
	return s
}
