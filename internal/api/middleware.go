package api

import (
	"context"
	"log"
	"net/http"
	"serwer-kont/internal/auth"
	"strings"
)

type contextKey string

const userContextKey = contextKey("user")

func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			// Fall back to the session cookie the login flow sets.
			if cookie, err := r.Cookie(s.config.Platform.CookieName); err == nil {
				tokenString = cookie.Value
			}
		}
		if tokenString == "" {
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		claims, err := auth.VerifySessionToken(tokenString, s.config.JWT.Secret)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Signature validity is not enough: a terminated session revokes
		// the token before its expiry.
		alive, err := s.store.SessionTokenAlive(r.Context(), tokenString)
		if err != nil {
			log.Printf("ERROR: Session liveness check failed: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !alive {
			http.Error(w, "Session has been terminated", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return ""
	}
	return headerParts[1]
}

func GetUserFromContext(ctx context.Context) *auth.SessionClaims {
	if claims, ok := ctx.Value(userContextKey).(*auth.SessionClaims); ok {
		return claims
	}
	return nil
}
