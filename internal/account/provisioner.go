package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"serwer-kont/internal/database"
	"serwer-kont/internal/models"

	"github.com/google/uuid"
)

// IdentityStore is the slice of the database layer the provisioner touches.
type IdentityStore interface {
	ExistenceChecker
	GetUserByWalletAddress(ctx context.Context, address string) (*models.User, error)
	GetUserByUUID(ctx context.Context, userUUID uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, arg database.CreateUserParams) (int64, error)
	TouchLastActivity(ctx context.Context, id int64) error
}

type GroupStore interface {
	AddUsersToGroup(ctx context.Context, groupUID string, usernames []string) error
}

type EntryInitializer interface {
	GenerateDefaultEntries(ctx context.Context, ownerID int64) error
}

type HomeProvisioner interface {
	EnsureUserRoot(userUUID string) error
}

// RequestContext carries the request-scoped fields stamped into signup and
// audit metadata.
type RequestContext struct {
	IP           string
	ForwardedFor string
	UserAgent    string
	Origin       string
}

// Options are the platform-wide defaults the provisioner needs; they arrive
// at construction time instead of being read from process globals.
type Options struct {
	ServerID               string
	DefaultUserGroup       string
	DefaultStorageCapacity int64
	DefaultTaskbarItems    json.RawMessage
}

type Provisioner struct {
	store   IdentityStore
	groups  GroupStore
	entries EntryInitializer
	homes   HomeProvisioner
	alloc   *UsernameAllocator
	opts    Options
}

func NewProvisioner(store IdentityStore, groups GroupStore, entries EntryInitializer, homes HomeProvisioner, alloc *UsernameAllocator, opts Options) *Provisioner {
	if len(opts.DefaultTaskbarItems) == 0 {
		opts.DefaultTaskbarItems = json.RawMessage("[]")
	}
	return &Provisioner{
		store:   store,
		groups:  groups,
		entries: entries,
		homes:   homes,
		alloc:   alloc,
		opts:    opts,
	}
}

// ResolveOrCreate maps a wallet address to exactly one platform account,
// creating it on first sight. The lookup and the insert are separate steps
// with no lock in between; the storage-level uniqueness constraint arbitrates
// concurrent inserts of the same address, and the losing request retries once
// so it observes the winner's row.
func (p *Provisioner) ResolveOrCreate(ctx context.Context, address, chainID string, reqCtx RequestContext) (*models.User, error) {
	if address == "" {
		return nil, validationError("address")
	}
	normalized := strings.ToLower(address)

	for attempt := 0; ; attempt++ {
		user, err := p.store.GetUserByWalletAddress(ctx, normalized)
		if err != nil {
			return nil, internalError(fmt.Errorf("wallet address lookup: %w", err))
		}
		if user != nil {
			// Existing accounts are returned as-is; the activity stamp
			// happens at session issuance, not here.
			return user, nil
		}

		user, err = p.createUser(ctx, normalized, chainID, reqCtx)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, database.ErrUserExists) && attempt == 0 {
			// Lost the compare-and-insert race; the next lookup finds the
			// row the winning request created.
			continue
		}
		if errors.Is(err, database.ErrUserExists) {
			return nil, conflictError(err)
		}
		return nil, err
	}
}

func (p *Provisioner) createUser(ctx context.Context, normalized, chainID string, reqCtx RequestContext) (*models.User, error) {
	username := normalized
	taken, err := p.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, internalError(fmt.Errorf("username check: %w", err))
	}
	if taken {
		username, err = p.alloc.Allocate(ctx)
		if err != nil {
			return nil, err
		}
	}

	userUUID := uuid.New()
	auditMetadata, err := json.Marshal(map[string]interface{}{
		"ip":             reqCtx.IP,
		"ip_fwd":         reqCtx.ForwardedFor,
		"user_agent":     reqCtx.UserAgent,
		"origin":         reqCtx.Origin,
		"server":         p.opts.ServerID,
		"wallet_address": normalized,
		"chain_id":       chainID,
	})
	if err != nil {
		return nil, internalError(fmt.Errorf("marshal audit metadata: %w", err))
	}

	id, err := p.store.CreateUser(ctx, database.CreateUserParams{
		UUID:              userUUID,
		Username:          username,
		WalletAddress:     &normalized,
		FreeStorage:       p.opts.DefaultStorageCapacity,
		TaskbarItems:      p.opts.DefaultTaskbarItems,
		AuditMetadata:     auditMetadata,
		SignupIP:          optional(reqCtx.IP),
		SignupIPForwarded: optional(reqCtx.ForwardedFor),
		SignupUserAgent:   optional(reqCtx.UserAgent),
		SignupOrigin:      optional(reqCtx.Origin),
		SignupServer:      optional(p.opts.ServerID),
		ChainID:           optional(chainID),
	})
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			return nil, err
		}
		return nil, internalError(fmt.Errorf("insert user: %w", err))
	}

	if err := p.store.TouchLastActivity(ctx, id); err != nil {
		return nil, internalError(fmt.Errorf("stamp activity: %w", err))
	}

	// From here on the user row exists. Failures are partial-failure states:
	// they must be surfaced, and every step below tolerates re-invocation so
	// a later login can finish the job.
	if err := p.groups.AddUsersToGroup(ctx, p.opts.DefaultUserGroup, []string{username}); err != nil {
		return nil, dependencyError(fmt.Errorf("default group membership: %w", err))
	}

	user, err := p.store.GetUserByUUID(ctx, userUUID)
	if err != nil {
		return nil, internalError(fmt.Errorf("re-fetch user: %w", err))
	}
	if user == nil {
		return nil, internalError(fmt.Errorf("user %s vanished after insert", userUUID))
	}

	if err := p.entries.GenerateDefaultEntries(ctx, user.ID); err != nil {
		return nil, dependencyError(fmt.Errorf("default entries: %w", err))
	}
	if err := p.homes.EnsureUserRoot(user.UUID.String()); err != nil {
		return nil, dependencyError(fmt.Errorf("home directory: %w", err))
	}

	return user, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
