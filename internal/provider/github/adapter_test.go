package github_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waabox/scmfinder/internal/domain"
	githubprovider "github.com/waabox/scmfinder/internal/provider/github"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/repos/acme/api":
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":        float64(42),
				"name":      "api-server",
				"full_name": "acme/api-server",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_ReturnsCanonicalName(t *testing.T) {
	srv := newServer(t)
	verifier, err := githubprovider.NewVerifier(context.Background(), "test-token", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, err := verifier.Verify(context.Background(), domain.Repository{Owner: "acme", Name: "api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "acme/api-server" {
		t.Errorf("expected 'acme/api-server', got '%s'", name)
	}
}

func TestVerify_NotFound(t *testing.T) {
	srv := newServer(t)
	verifier, err := githubprovider.NewVerifier(context.Background(), "test-token", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = verifier.Verify(context.Background(), domain.Repository{Owner: "acme", Name: "missing"})
	if !errors.Is(err, domain.ErrRepositoryNotFound) {
		t.Errorf("expected ErrRepositoryNotFound, got %v", err)
	}
}

func TestVerify_Unauthorized(t *testing.T) {
	srv := newServer(t)
	verifier, err := githubprovider.NewVerifier(context.Background(), "", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = verifier.Verify(context.Background(), domain.Repository{Owner: "acme", Name: "api"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNewVerifier_InvalidURL(t *testing.T) {
	_, err := githubprovider.NewVerifier(context.Background(), "", "://bad")
	if err == nil {
		t.Fatal("expected error for invalid url, got nil")
	}
}
