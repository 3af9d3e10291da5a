package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clinicos/schedcore/internal/tenancy"
)

// requireOrgID stores the {orgID} URL segment in the request context so
// downstream services see the tenant scope without re-parsing the URL.
func requireOrgID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := strings.TrimSpace(chi.URLParam(r, "orgID"))
		if orgID == "" {
			http.Error(w, `{"error": "org id required"}`, http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithOrgID(r.Context(), orgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
