package middleware

import (
	"context"
	"log"
	"net/http"

	"ytvd/internal/db"
)

type contextKey string

// UserContextKey is the key for the user in the context.
const UserContextKey = contextKey("user")

// SessionCookieName holds the logged-in username. Session handling is
// deliberately thin; hardening identity is outside this app's scope.
const SessionCookieName = "ytvd_user"

// AuthMiddleware resolves the session cookie to a user, creating the user
// on first sight, and stores it in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		user, err := db.FindOrCreateUserByUsername(cookie.Value)
		if err != nil {
			log.Printf("Error resolving user %q: %v", cookie.Value, err)
			http.Error(w, "Failed to authenticate user", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
