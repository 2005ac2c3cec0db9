package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/models"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, zerolog.Nop())
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Mot de passe incorrect"}`)
	})

	_, err := c.Login(context.Background(), "dem1", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Mot de passe incorrect" {
		t.Fatalf("bad error: %+v", apiErr)
	}
}

func TestLoginAcceptsBareStringErrorBody(t *testing.T) {
	// Older backend generations send the message as a raw string body.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "Utilisateur inexistant")
	})

	_, err := c.Login(context.Background(), "ghost", "1234")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Utilisateur inexistant" {
		t.Fatalf("raw body not used as message: %v", err)
	}
}

func TestReplyRequiresCommentBeforeNetwork(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.PostTechnicianReply(context.Background(), 3, "tech1", "   ", models.StatutResolue)
	if !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("want ErrCommentRequired, got %v", err)
	}
	if called {
		t.Fatal("request went on the wire despite empty comment")
	}
}

func TestAdminDetailOutsideWindowReturnsNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("size"); got != "500" {
			t.Errorf("detail search window size = %s, want 500", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":[{"id":1,"titre":"a","description":"","service":"IT","statut":"OUVERT","dateCreation":"2024-03-01T10:00:00Z"}],
			"totalElements":1,"totalPages":1,"number":0,"size":500}`)
	})

	_, err := c.AdminReclamationDetail(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAdminReclamationsNormalizesBareArray(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":5,"titre":"clim","description":"","service":"EQUIPEMENT","statut":"OUVERT","dateCreation":"2024-03-01T10:00:00Z"}]`)
	})

	p, err := c.AdminReclamations(context.Background(), AdminListParams{Page: 0, Size: 20})
	if err != nil {
		t.Fatalf("AdminReclamations: %v", err)
	}
	if p.TotalPages != 1 || p.Number != 0 || len(p.Content) != 1 || p.Content[0].ID != 5 {
		t.Fatalf("bad normalized page: %+v", p)
	}
}

func TestDetailDispatchByMode(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":9,"titre":"x","description":"","service":"IT","statut":"OUVERT","dateCreation":"2024-03-01T10:00:00Z"}`)
	})

	if _, err := c.ReclamationDetail(context.Background(), 9, "my", "dem1"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/demandeur/reclamations/9" {
		t.Fatalf("mode my hit %s", gotPath)
	}

	if _, err := c.ReclamationDetail(context.Background(), 9, "service", "tech1"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/technicien/reclamations/9" {
		t.Fatalf("mode service hit %s", gotPath)
	}
}
