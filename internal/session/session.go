// Package session holds the authenticated identity for the lifetime of
// the process. It is injected explicitly into everything that needs it;
// there is no ambient global.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/yasminebennouis/app-reclamations/internal/client"
	"github.com/yasminebennouis/app-reclamations/internal/models"
)

// Session is the logged-in identity. Service is set for technicians only.
type Session struct {
	Username string
	Role     models.Role
	Service  *models.Service
}

// Manager owns the single Session slot. Login failures leave the prior
// state (normally logged out) untouched and record a displayable message.
type Manager struct {
	api *client.Client

	mu      sync.Mutex
	current *Session
	loading bool
	lastErr string
}

func NewManager(api *client.Client) *Manager {
	return &Manager{api: api}
}

// Login authenticates and stores the session. The loading flag is set for
// the duration of the call; concurrent calls are not deduplicated — the
// caller is expected to disable its control while one is in flight.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	m.mu.Lock()
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()

	res, err := m.api.Login(ctx, username, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.lastErr = loginMessage(err)
		return nil, err
	}
	m.current = &Session{Username: res.Username, Role: res.Role, Service: res.Service}
	s := *m.current
	return &s, nil
}

// Logout clears the session and any error state. No network call.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.lastErr = ""
}

// Current returns a copy of the session, or nil when logged out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the message from the last failed login, cleared on the next
// attempt and on logout.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// loginMessage picks the most useful text: the server's message when
// there is one, then the transport error, then a static fallback.
func loginMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return "Impossible de se connecter"
}
