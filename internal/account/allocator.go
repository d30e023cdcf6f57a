package account

import (
	"context"

	"github.com/jaevor/go-nanoid"
)

// ExistenceChecker is the one identity-store capability the allocator needs.
type ExistenceChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

const (
	usernameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	usernameLength   = 12
)

// UsernameAllocator hands out human-readable usernames that are unconfirmed
// to exist at the moment of the check. Candidates are collision-resistant but
// not unique by construction; the loop against the store settles it.
type UsernameAllocator struct {
	store    ExistenceChecker
	generate func() string
}

func NewUsernameAllocator(store ExistenceChecker) (*UsernameAllocator, error) {
	generate, err := nanoid.CustomASCII(usernameAlphabet, usernameLength)
	if err != nil {
		return nil, err
	}
	return &UsernameAllocator{store: store, generate: generate}, nil
}

// Allocate generates candidates until one is absent from the store. There is
// no retry cap; with a 36-character alphabet at length 12, a second loop
// iteration is already rare.
func (a *UsernameAllocator) Allocate(ctx context.Context) (string, error) {
	for {
		candidate := a.generate()
		exists, err := a.store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", internalError(err)
		}
		if !exists {
			return candidate, nil
		}
	}
}
