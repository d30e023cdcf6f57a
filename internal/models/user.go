package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is the platform identity record. WalletAddress is stored lower-cased
// and is unique when present; Username and UUID are unique across all users.
type User struct {
	ID                int64           `json:"id" db:"id"`
	UUID              uuid.UUID       `json:"uuid" db:"uuid"`
	Username          string          `json:"username" db:"username"`
	WalletAddress     *string         `json:"wallet_address,omitempty" db:"wallet_address"`
	Email             *string         `json:"email,omitempty" db:"email"`
	EmailConfirmed    bool            `json:"email_confirmed" db:"email_confirmed"`
	PasswordHash      *string         `json:"-" db:"password_hash"`
	FreeStorage       int64           `json:"free_storage" db:"free_storage"`
	TaskbarItems      json.RawMessage `json:"taskbar_items,omitempty" db:"taskbar_items"`
	ReferralCode      *string         `json:"referral_code,omitempty" db:"referral_code"`
	AuditMetadata     json.RawMessage `json:"-" db:"audit_metadata"`
	SignupIP          *string         `json:"-" db:"signup_ip"`
	SignupIPForwarded *string         `json:"-" db:"signup_ip_forwarded"`
	SignupUserAgent   *string         `json:"-" db:"signup_user_agent"`
	SignupOrigin      *string         `json:"-" db:"signup_origin"`
	SignupServer      *string         `json:"-" db:"signup_server"`
	ChainID           *string         `json:"-" db:"chain_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	LastActivityAt    *time.Time      `json:"last_activity_at,omitempty" db:"last_activity_at"`
}
