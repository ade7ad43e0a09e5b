package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const userClaimsKey contextKey = "user_claims"

// withUserClaims adds user claims to the context.
func withUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// WithUserClaims is the exported version for testing purposes.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return withUserClaims(ctx, claims)
}

// GetUserClaims extracts user claims from context.
func GetUserClaims(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*UserClaims)
	return claims, ok
}

// GetUserID is a convenience function to get the user ID from context.
func GetUserID(ctx context.Context) (string, bool) {
	if claims, ok := GetUserClaims(ctx); ok {
		return claims.UID, true
	}
	return "", false
}

// isPublicEndpoint checks if a path is accessible without authentication.
func isPublicEndpoint(path string) bool {
	switch {
	case path == "/health", path == "/ping":
		return true
	}
	return false
}

// Middleware verifies the Bearer token on every non-public request and
// attaches the caller's claims to the context.
func Middleware(firebaseAuth *FirebaseAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := ExtractTokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				writeUnauthenticated(w, err.Error())
				return
			}
			claims, err := firebaseAuth.VerifyToken(r.Context(), token)
			if err != nil {
				writeUnauthenticated(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserClaims(r.Context(), claims)))
		})
	}
}

// LocalDevMiddleware injects a fixed development user so the API is usable
// without Firebase. The X-Debug-Impersonate-User header switches the user
// ID. Never wire this into a production build.
func LocalDevMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &UserClaims{
				UID:         "local-dev-user",
				Email:       "dev@localhost",
				DisplayName: "Local Dev User",
				Verified:    true,
			}
			if impersonate := strings.TrimSpace(r.Header.Get("X-Debug-Impersonate-User")); impersonate != "" {
				claims = &UserClaims{
					UID:   impersonate,
					Email: impersonate + "@debug.local",
				}
			}
			next.ServeHTTP(w, r.WithContext(withUserClaims(r.Context(), claims)))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
