package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/tenancy"
)

// roleClaims is the JWT payload staff tokens carry.
type roleClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// RoleFromJWT resolves the caller's role from an HMAC-signed bearer token
// and stores it in the request context. An absent Authorization header is
// not an error: the caller proceeds as an unauthenticated patient. A
// present but invalid token is rejected.
func RoleFromJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}
			if secret == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error": "invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims := roleClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error": "invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := tenancy.WithRole(r.Context(), string(policy.ParseRole(claims.Role)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects callers whose resolved role is not privileged. Used
// on schedule-management and config endpoints.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := tenancy.RoleFromContext(r.Context())
		if !ok || !policy.ParseRole(role).Privileged() {
			http.Error(w, `{"error": "staff access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
