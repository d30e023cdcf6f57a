package auth

import (
	"serwer-kont/internal/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CredentialKind tags which credential a session was issued against. A single
// issuance path handles all kinds; there is no per-kind specialization beyond
// this tag.
type CredentialKind string

const (
	CredentialWallet   CredentialKind = "wallet"
	CredentialPassword CredentialKind = "password"
)

// SessionTTL is the validity window of an issued session token.
const SessionTTL = 30 * 24 * time.Hour

type SessionClaims struct {
	UserID     int64          `json:"user_id"`
	UserUUID   string         `json:"user_uuid"`
	Username   string         `json:"username"`
	Credential CredentialKind `json:"credential"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(user *models.User, kind CredentialKind, secret string) (string, error) {
	expirationTime := time.Now().Add(SessionTTL)

	claims := &SessionClaims{
		UserID:     user.ID,
		UserUUID:   user.UUID.String(),
		Username:   user.Username,
		Credential: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every issued token distinct, even for the same
			// user within the same second; session rows key on the token.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "account-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifySessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
