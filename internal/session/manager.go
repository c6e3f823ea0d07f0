package session

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type Manager struct {
	store      Store
	cookieName string
	secure     bool
	maxAge     int
}

type ManagerConfig struct {
	CookieName string
	Secure     bool
	// MaxAge is the cookie lifetime in seconds; 0 makes it a browser-session cookie.
	MaxAge int
}

func NewManager(store Store, cfg ManagerConfig) *Manager {
	name := cfg.CookieName
	if name == "" {
		name = "benkyou_session"
	}
	return &Manager{store: store, cookieName: name, secure: cfg.Secure, maxAge: cfg.MaxAge}
}

// Current returns the user of the request's session, if any. It never
// writes to the response.
func (m *Manager) Current(r *http.Request) (User, bool, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return User{}, false, nil
	}
	return m.store.Get(r.Context(), c.Value)
}

// Start stores u under a fresh session id and sets the cookie. Any
// session the request already carried is dropped first.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, u User) error {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		if err := m.store.Delete(r.Context(), c.Value); err != nil {
			return err
		}
	}

	id := uuid.NewString()
	if err := m.store.Set(r.Context(), id, u); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	http.SetCookie(w, m.cookie(id, m.maxAge))
	return nil
}

// End deletes the session record and expires the cookie. Ending a request
// without a session is not an error.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		if err := m.store.Delete(r.Context(), c.Value); err != nil {
			return fmt.Errorf("ending session: %w", err)
		}
	}
	http.SetCookie(w, m.cookie("", -1))
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
