package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/boypaida12/kidsjourneyhub/internal/user"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"
)

type contextKey string

const (
	AdminIDKey contextKey = "adminID"
	ClaimsKey  contextKey = "jwtClaims"
)

// ExtractAccessToken reads the session token from the cookie (preferred)
// or the Authorization header (fallback).
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// RequireAdmin gates back-office routes behind an authenticated session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ExtractAccessToken(r)
		if tokenStr == "" {
			utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, AdminIDKey, claims.AdminID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminIDFromContext returns the authenticated admin's id, if any.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AdminIDKey).(string)
	return id, ok
}
