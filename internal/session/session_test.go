package session_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/client"
	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/nav"
	"github.com/yasminebennouis/app-reclamations/internal/session"
)

func managerAgainst(t *testing.T, h http.HandlerFunc) *session.Manager {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return session.NewManager(client.New(srv.URL, zerolog.Nop()))
}

func TestLoginDemandeurExposesDemandeurRoutes(t *testing.T) {
	m := managerAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"username":"dem1","role":"DEMANDEUR","service":null}`)
	})

	sess, err := m.Login(context.Background(), "dem1", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Role != models.RoleDemandeur || sess.Username != "dem1" || sess.Service != nil {
		t.Fatalf("bad session: %+v", sess)
	}

	routes := nav.RouteSet(&sess.Role)
	want := map[nav.Route]bool{
		nav.RouteHome:              true,
		nav.RouteCreateReclamation: true,
		nav.RouteMyReclamations:    true,
		nav.RouteReclamationDetail: true,
	}
	if len(routes) != len(want) {
		t.Fatalf("route set size %d, want %d: %v", len(routes), len(want), routes)
	}
	for _, r := range routes {
		if !want[r] {
			t.Fatalf("unexpected route %s for DEMANDEUR", r)
		}
	}
}

func TestLoginFailureKeepsPriorStateAndRecordsMessage(t *testing.T) {
	m := managerAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Mot de passe incorrect"}`)
	})

	if _, err := m.Login(context.Background(), "dem1", "nope"); err == nil {
		t.Fatal("login should fail")
	}
	if m.Current() != nil {
		t.Fatal("failed login must not install a session")
	}
	if m.Err() != "Mot de passe incorrect" {
		t.Fatalf("error message = %q", m.Err())
	}
	if m.Loading() {
		t.Fatal("loading flag stuck")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	m := managerAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"username":"tech1","role":"TECHNICIEN","service":"IT"}`)
	})

	if _, err := m.Login(context.Background(), "tech1", "1234"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if s := m.Current(); s == nil || s.Service == nil || *s.Service != models.ServiceIT {
		t.Fatalf("technician session missing service: %+v", s)
	}

	m.Logout()
	if m.Current() != nil || m.Err() != "" {
		t.Fatal("logout must clear session and error state")
	}
}
