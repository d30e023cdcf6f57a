package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"serwer-kont/internal/auth"
	"serwer-kont/internal/database"
	"serwer-kont/internal/models"
	"serwer-kont/internal/websocket"

	"github.com/google/uuid"
)

// issueSession mints a session token for an already-resolved user and records
// the credential server-side. One call, one token; the 30-day window comes
// from auth.SessionTTL.
func (s *Server) issueSession(ctx context.Context, r *http.Request, user *models.User, kind auth.CredentialKind) (string, error) {
	token, err := auth.GenerateSessionToken(user, kind, s.config.JWT.Secret)
	if err != nil {
		return "", err
	}

	err = s.store.CreateSession(ctx, database.CreateSessionParams{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
		ExpiresAt: time.Now().Add(auth.SessionTTL),
	})
	if err != nil {
		return "", err
	}

	if err := s.store.TouchLastActivity(ctx, user.ID); err != nil {
		log.Printf("WARN: Failed to stamp activity for user %d: %v", user.ID, err)
	}

	s.wsHub.PublishEvent(user.ID, websocket.Event{
		EventType: "session.created",
		Payload: map[string]string{
			"credential": string(kind),
			"user_agent": r.UserAgent(),
			"client_ip":  r.RemoteAddr,
		},
	})

	return token, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Platform.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.config.Platform.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
