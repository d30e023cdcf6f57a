package referral

import (
	"context"
	"serwer-kont/internal/models"

	"github.com/jaevor/go-nanoid"
)

// Store is the persistence hook for claimed codes.
type Store interface {
	ClaimReferralCode(ctx context.Context, userID int64, code string) (string, error)
}

// Service generates short shareable referral codes. The server holds it as a
// nullable capability: a nil *Service simply means the platform runs without
// referrals, and callers skip the lookup.
type Service struct {
	store    Store
	generate func() string
}

const codeLength = 8

func NewService(store Store) (*Service, error) {
	generate, err := nanoid.CustomASCII("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", codeLength)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, generate: generate}, nil
}

// GenReferralCode returns the user's referral code, minting one on first use.
func (s *Service) GenReferralCode(ctx context.Context, user *models.User) (string, error) {
	if user.ReferralCode != nil {
		return *user.ReferralCode, nil
	}
	return s.store.ClaimReferralCode(ctx, user.ID, s.generate())
}
