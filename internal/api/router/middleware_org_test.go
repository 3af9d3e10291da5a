package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/clinicos/schedcore/internal/tenancy"
)

func TestRequireOrgIDPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := tenancy.OrgIDFromContext(r.Context())
		if !ok || orgID != "org-abc" {
			t.Fatalf("expected org id propagated, got %s / %v", orgID, ok)
		}
		w.WriteHeader(http.StatusTeapot)
	})

	r := chi.NewRouter()
	r.Route("/orgs/{orgID}", func(r chi.Router) {
		r.Use(requireOrgID)
		r.Get("/ping", next.ServeHTTP)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orgs/org-abc/ping", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected downstream status, got %d", rr.Code)
	}
}

func TestRequireOrgIDMissingParam(t *testing.T) {
	handler := requireOrgID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing org, got %d", rr.Code)
	}
}
