// Package nav is the role-gated navigator: it decides which screens the
// current session can reach and keeps the history stack, so logging out
// can never be "backed" out of.
package nav

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/session"
)

type Route string

const (
	RouteLogin               Route = "Login"
	RouteHome                Route = "Home"
	RouteCreateReclamation   Route = "CreateReclamation"
	RouteMyReclamations      Route = "MyReclamations"
	RouteServiceReclamations Route = "ServiceReclamations"
	RouteTechnicianReplies   Route = "TechnicianReplies"
	RouteTechReply           Route = "TechReply"
	RouteAdminReclamations   Route = "AdminReclamations"
	RouteAdminStats          Route = "AdminStats"
	RouteReclamationDetail   Route = "ReclamationDetail"
)

// DetailMode selects which role-scoped fetch backs the detail screen.
type DetailMode string

const (
	ModeMy      DetailMode = "my"
	ModeService DetailMode = "service"
	ModeAll     DetailMode = "all"
)

// DetailParams parameterizes the detail route.
type DetailParams struct {
	ID   int64
	Mode DetailMode
}

var (
	ErrUnreachable  = errors.New("route not reachable for current session")
	ErrModeMismatch = errors.New("detail mode does not match session role")
)

// RouteSet returns the fixed, total set of reachable routes for a role;
// nil means logged out.
func RouteSet(role *models.Role) []Route {
	if role == nil {
		return []Route{RouteLogin}
	}
	switch *role {
	case models.RoleDemandeur:
		return []Route{RouteHome, RouteCreateReclamation, RouteMyReclamations, RouteReclamationDetail}
	case models.RoleTechnicien:
		return []Route{RouteHome, RouteServiceReclamations, RouteTechnicianReplies, RouteTechReply, RouteReclamationDetail}
	case models.RoleAdmin:
		return []Route{RouteHome, RouteAdminReclamations, RouteAdminStats, RouteReclamationDetail}
	}
	return []Route{RouteLogin}
}

// DetailModeFor derives the detail mode from the role instead of trusting
// a caller-supplied one.
func DetailModeFor(role models.Role) DetailMode {
	switch role {
	case models.RoleTechnicien:
		return ModeService
	case models.RoleAdmin:
		return ModeAll
	default:
		return ModeMy
	}
}

type entry struct {
	route  Route
	params any
}

// SessionStore is the slice of the session manager the navigator needs.
type SessionStore interface {
	Current() *session.Session
	Logout()
}

// Navigator reads the session to gate every transition.
type Navigator struct {
	sessions SessionStore

	mu    sync.Mutex
	stack []entry
}

func New(sessions SessionStore) *Navigator {
	return &Navigator{sessions: sessions, stack: []entry{{route: RouteLogin}}}
}

func (n *Navigator) role() *models.Role {
	s := n.sessions.Current()
	if s == nil {
		return nil
	}
	r := s.Role
	return &r
}

func (n *Navigator) reachable(r Route) bool {
	for _, candidate := range RouteSet(n.role()) {
		if candidate == r {
			return true
		}
	}
	return false
}

// Navigate pushes a route if the current session can reach it.
func (n *Navigator) Navigate(r Route) error {
	if !n.reachable(r) {
		return fmt.Errorf("%w: %s", ErrUnreachable, r)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, entry{route: r})
	return nil
}

// OpenDetail pushes the detail route. The mode is derived from the
// session role; an explicit mode is accepted only when it agrees.
func (n *Navigator) OpenDetail(id int64, explicit DetailMode) error {
	s := n.sessions.Current()
	if s == nil {
		return fmt.Errorf("%w: %s", ErrUnreachable, RouteReclamationDetail)
	}
	mode := DetailModeFor(s.Role)
	if explicit != "" && explicit != mode {
		return fmt.Errorf("%w: %q for role %s", ErrModeMismatch, explicit, s.Role)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, entry{route: RouteReclamationDetail, params: DetailParams{ID: id, Mode: mode}})
	return nil
}

// Back pops the current screen; it never pops the root.
func (n *Navigator) Back() (Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) <= 1 {
		return n.stack[0].route, false
	}
	n.stack = n.stack[:len(n.stack)-1]
	return n.stack[len(n.stack)-1].route, true
}

// Current returns the active route and its params.
func (n *Navigator) Current() (Route, any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	top := n.stack[len(n.stack)-1]
	return top.route, top.params
}

// Depth reports the history size (Login or Home alone is 1).
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Reset rebuilds the history from the session state: Home for an
// authenticated session, Login otherwise. Called after login and logout
// so no prior screen survives the transition.
func (n *Navigator) Reset() {
	root := RouteLogin
	if n.sessions.Current() != nil {
		root = RouteHome
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = []entry{{route: root}}
}

// Logout clears the session and resets the history in one step.
func (n *Navigator) Logout() {
	n.sessions.Logout()
	n.Reset()
}
