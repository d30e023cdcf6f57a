package api

import (
	"encoding/json"
	"log"
	"net/http"

	"serwer-kont/internal/auth"
	"serwer-kont/internal/database"
)

type PasswordLoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"password123"`
}

// @Summary      Password login
// @Description  Authenticates a user by username and password and issues the same 30-day session token as the wallet flow.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        passwordLoginRequest  body      PasswordLoginRequest  true  "Login credentials"
// @Success      200                   {object}  LoginResponse
// @Failure      400                   {object}  ErrorResponse "Missing field"
// @Failure      401                   {object}  ErrorResponse "Invalid username or password"
// @Failure      500                   {object}  ErrorResponse "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) PasswordLoginHandler(w http.ResponseWriter, r *http.Request) {
	// Password bodies never reach the journal verbatim.
	_, err := s.store.RecordAuthAttempt(r.Context(), database.RecordAuthAttemptParams{
		Requester: requesterContext(r),
		Action:    "auth:password",
		Body:      json.RawMessage(`{"redacted":true}`),
	})
	if err != nil {
		log.Printf("ERROR: Failed to record auth audit entry: %v", err)
		writeInternalError(w)
		return
	}

	var req PasswordLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if req.Username == "" {
		writeFieldMissing(w, "username")
		return
	}
	if req.Password == "" {
		writeFieldMissing(w, "password")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("ERROR: User lookup failed for %q: %v", req.Username, err)
		writeInternalError(w)
		return
	}
	if user == nil || user.PasswordHash == nil || !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	token, err := s.issueSession(r.Context(), r, user, auth.CredentialPassword)
	if err != nil {
		log.Printf("ERROR: Failed to issue session for user %d: %v", user.ID, err)
		writeInternalError(w)
		return
	}
	s.setSessionCookie(w, token)

	emailConfirmed := 0
	if user.EmailConfirmed {
		emailConfirmed = 1
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Success: true,
		Token:   token,
		User:    s.publicUser(r, user, emailConfirmed),
	})
}
