package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"serwer-kont/internal/account"
	"serwer-kont/internal/auth"
	"serwer-kont/internal/database"
	"serwer-kont/internal/models"
)

type ParticleLoginRequest struct {
	Address string          `json:"address" example:"0xAbC123..."`
	ChainID json.RawMessage `json:"chainId" swaggertype:"string" example:"1"`
}

// PublicUser is the client-visible projection of an account.
type PublicUser struct {
	Username       string          `json:"username"`
	UUID           string          `json:"uuid"`
	Email          *string         `json:"email"`
	EmailConfirmed int             `json:"email_confirmed"`
	WalletAddress  *string         `json:"wallet_address"`
	CreatedAt      time.Time       `json:"created_at"`
	IsTemp         bool            `json:"is_temp"`
	TaskbarItems   json.RawMessage `json:"taskbar_items"`
	ReferralCode   string          `json:"referral_code,omitempty"`
}

type LoginResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

// @Summary      Wallet login
// @Description  Resolves a wallet address to a platform account, creating one on first sight, and issues a 30-day session token. No authentication required.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        particleLoginRequest  body      ParticleLoginRequest  true  "Wallet credential"
// @Success      200                   {object}  LoginResponse
// @Failure      400                   {object}  ErrorResponse "Missing address field"
// @Failure      500                   {object}  ErrorResponse "Internal Server Error"
// @Router       /auth/particle [post]
func (s *Server) ParticleLoginHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Could not read request body")
		return
	}

	// The audit record goes in before any provisioning work so that failed
	// and successful attempts are equally observable.
	auditID, err := s.store.RecordAuthAttempt(r.Context(), database.RecordAuthAttemptParams{
		Requester: requesterContext(r),
		Action:    "auth:particle",
		Body:      auditBody(body),
	})
	if err != nil {
		log.Printf("ERROR: Failed to record auth audit entry: %v", err)
		writeInternalError(w)
		return
	}

	var req ParticleLoginRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
			return
		}
	}
	if req.Address == "" {
		writeFieldMissing(w, "address")
		return
	}

	user, err := s.provisioner.ResolveOrCreate(r.Context(), req.Address, chainIDString(req.ChainID), account.RequestContext{
		IP:           r.RemoteAddr,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		UserAgent:    r.UserAgent(),
		Origin:       r.Header.Get("Origin"),
	})
	if err != nil {
		if account.KindOf(err) == account.KindValidation {
			writeFieldMissing(w, account.FieldOf(err))
			return
		}
		// Conflict, dependency and internal failures all surface the same
		// way; the client never sees storage-level error text.
		log.Printf("ERROR: Particle auth failed for address %q: %v", req.Address, err)
		writeInternalError(w)
		return
	}

	if err := s.store.AttributeAuditToUser(r.Context(), auditID, user.ID); err != nil {
		log.Printf("WARN: Failed to attribute audit entry %d to user %d: %v", auditID, user.ID, err)
	}

	token, err := s.issueSession(r.Context(), r, user, auth.CredentialWallet)
	if err != nil {
		log.Printf("ERROR: Failed to issue session for user %d: %v", user.ID, err)
		writeInternalError(w)
		return
	}
	s.setSessionCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Success: true,
		Token:   token,
		User:    s.publicUser(r, user, 1),
	})
}

// publicUser assembles the response view. Taskbar items and the referral code
// are best-effort: their failures are logged and the field defaults to
// absent, never failing the login itself.
func (s *Server) publicUser(r *http.Request, user *models.User, emailConfirmed int) PublicUser {
	taskbarItems := user.TaskbarItems
	if items, err := s.store.GetTaskbarItems(r.Context(), user.ID); err != nil {
		log.Printf("WARN: Failed to fetch taskbar items for user %d: %v", user.ID, err)
	} else if items != nil {
		taskbarItems = items
	}
	if taskbarItems == nil {
		taskbarItems = json.RawMessage("[]")
	}

	var referralCode string
	if s.referral != nil {
		code, err := s.referral.GenReferralCode(r.Context(), user)
		if err != nil {
			log.Printf("WARN: Failed to generate referral code for user %d: %v", user.ID, err)
		} else {
			referralCode = code
		}
	}

	return PublicUser{
		Username:       user.Username,
		UUID:           user.UUID.String(),
		Email:          user.Email,
		EmailConfirmed: emailConfirmed,
		WalletAddress:  user.WalletAddress,
		CreatedAt:      user.CreatedAt,
		IsTemp:         false,
		TaskbarItems:   taskbarItems,
		ReferralCode:   referralCode,
	}
}

type requesterInfo struct {
	IP           string `json:"ip"`
	ForwardedFor string `json:"ip_fwd,omitempty"`
	UserAgent    string `json:"user_agent,omitempty"`
	Origin       string `json:"origin,omitempty"`
}

func requesterContext(r *http.Request) requesterInfo {
	return requesterInfo{
		IP:           r.RemoteAddr,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		UserAgent:    r.UserAgent(),
		Origin:       r.Header.Get("Origin"),
	}
}

// auditBody keeps the raw request body in the journal even when it is not
// valid JSON, by quoting it as a JSON string.
func auditBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("{}")
	}
	if json.Valid(body) {
		return body
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return json.RawMessage("{}")
	}
	return quoted
}

// chainIDString accepts the chainId field as either a JSON string or number.
func chainIDString(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}
