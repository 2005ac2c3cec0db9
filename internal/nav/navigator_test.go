package nav

import (
	"errors"
	"testing"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/session"
)

type fakeSessions struct {
	sess *session.Session
}

func (f *fakeSessions) Current() *session.Session { return f.sess }
func (f *fakeSessions) Logout()                   { f.sess = nil }

func loggedIn(role models.Role) *fakeSessions {
	return &fakeSessions{sess: &session.Session{Username: "u", Role: role}}
}

func TestRouteSetsAreFixedAndTotal(t *testing.T) {
	cases := []struct {
		name string
		role *models.Role
		want []Route
	}{
		{"unauthenticated", nil, []Route{RouteLogin}},
		{"demandeur", rolePtr(models.RoleDemandeur),
			[]Route{RouteHome, RouteCreateReclamation, RouteMyReclamations, RouteReclamationDetail}},
		{"technicien", rolePtr(models.RoleTechnicien),
			[]Route{RouteHome, RouteServiceReclamations, RouteTechnicianReplies, RouteTechReply, RouteReclamationDetail}},
		{"admin", rolePtr(models.RoleAdmin),
			[]Route{RouteHome, RouteAdminReclamations, RouteAdminStats, RouteReclamationDetail}},
	}
	for _, tc := range cases {
		got := RouteSet(tc.role)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: route set %v, want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: route set %v, want %v", tc.name, got, tc.want)
			}
		}
	}
}

func rolePtr(r models.Role) *models.Role { return &r }

func TestUnauthenticatedReachesOnlyLogin(t *testing.T) {
	n := New(&fakeSessions{})
	for _, r := range []Route{RouteHome, RouteMyReclamations, RouteAdminStats, RouteReclamationDetail} {
		if err := n.Navigate(r); !errors.Is(err, ErrUnreachable) {
			t.Fatalf("Navigate(%s) while logged out: %v", r, err)
		}
	}
}

func TestDemandeurCannotReachAdminOrTechnicienRoutes(t *testing.T) {
	n := New(loggedIn(models.RoleDemandeur))
	n.Reset()

	if err := n.Navigate(RouteMyReclamations); err != nil {
		t.Fatalf("own route rejected: %v", err)
	}
	for _, r := range []Route{RouteAdminReclamations, RouteAdminStats, RouteServiceReclamations, RouteTechReply} {
		if err := n.Navigate(r); !errors.Is(err, ErrUnreachable) {
			t.Fatalf("Navigate(%s) as DEMANDEUR: %v", r, err)
		}
	}
}

func TestDetailModeDerivedFromRole(t *testing.T) {
	if m := DetailModeFor(models.RoleDemandeur); m != ModeMy {
		t.Fatalf("demandeur mode %s", m)
	}
	if m := DetailModeFor(models.RoleTechnicien); m != ModeService {
		t.Fatalf("technicien mode %s", m)
	}
	if m := DetailModeFor(models.RoleAdmin); m != ModeAll {
		t.Fatalf("admin mode %s", m)
	}
}

func TestOpenDetailRejectsForeignMode(t *testing.T) {
	n := New(loggedIn(models.RoleDemandeur))
	n.Reset()

	// A requester manually navigating with mode=all must not widen scope.
	if err := n.OpenDetail(42, ModeAll); !errors.Is(err, ErrModeMismatch) {
		t.Fatalf("want ErrModeMismatch, got %v", err)
	}

	if err := n.OpenDetail(42, ""); err != nil {
		t.Fatalf("derived mode rejected: %v", err)
	}
	_, params := n.Current()
	dp, ok := params.(DetailParams)
	if !ok || dp.ID != 42 || dp.Mode != ModeMy {
		t.Fatalf("bad detail params: %#v", params)
	}
}

func TestLogoutResetsHistory(t *testing.T) {
	sessions := loggedIn(models.RoleAdmin)
	n := New(sessions)
	n.Reset()

	if err := n.Navigate(RouteAdminReclamations); err != nil {
		t.Fatal(err)
	}
	if err := n.OpenDetail(7, ""); err != nil {
		t.Fatal(err)
	}
	if n.Depth() != 3 {
		t.Fatalf("depth %d before logout", n.Depth())
	}

	n.Logout()
	if sessions.Current() != nil {
		t.Fatal("session survived logout")
	}
	if r, _ := n.Current(); r != RouteLogin {
		t.Fatalf("current route after logout: %s", r)
	}
	if _, ok := n.Back(); ok {
		t.Fatal("back navigation escaped the login screen")
	}
}

func TestResetAfterLoginLandsOnHome(t *testing.T) {
	sessions := &fakeSessions{}
	n := New(sessions)
	if r, _ := n.Current(); r != RouteLogin {
		t.Fatalf("initial route %s", r)
	}

	sessions.sess = &session.Session{Username: "admin1", Role: models.RoleAdmin}
	n.Reset()
	if r, _ := n.Current(); r != RouteHome {
		t.Fatalf("route after login %s", r)
	}
	if n.Depth() != 1 {
		t.Fatalf("history depth after login reset: %d", n.Depth())
	}
}
