package account

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"serwer-kont/internal/database"
	"serwer-kont/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeIdentityStore is an in-memory identity store that enforces the same
// uniqueness constraints the real schema does, so the compare-and-insert race
// behaves like it would against Postgres.
type fakeIdentityStore struct {
	mu          sync.Mutex
	nextID      int64
	byWallet    map[string]*models.User
	byUUID      map[uuid.UUID]*models.User
	usernames   map[string]bool
	createCalls int
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{
		byWallet:  make(map[string]*models.User),
		byUUID:    make(map[uuid.UUID]*models.User),
		usernames: make(map[string]bool),
	}
}

func (f *fakeIdentityStore) GetUserByWalletAddress(_ context.Context, address string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.byWallet[address]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeIdentityStore) GetUserByUUID(_ context.Context, userUUID uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.byUUID[userUUID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeIdentityStore) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usernames[username], nil
}

func (f *fakeIdentityStore) CreateUser(_ context.Context, arg database.CreateUserParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if arg.WalletAddress != nil {
		if _, ok := f.byWallet[*arg.WalletAddress]; ok {
			return 0, database.ErrUserExists
		}
	}
	if f.usernames[arg.Username] {
		return 0, database.ErrUserExists
	}

	f.nextID++
	user := &models.User{
		ID:            f.nextID,
		UUID:          arg.UUID,
		Username:      arg.Username,
		WalletAddress: arg.WalletAddress,
		FreeStorage:   arg.FreeStorage,
		TaskbarItems:  arg.TaskbarItems,
		AuditMetadata: arg.AuditMetadata,
		ChainID:       arg.ChainID,
		CreatedAt:     time.Now(),
	}
	if arg.WalletAddress != nil {
		f.byWallet[*arg.WalletAddress] = user
	}
	f.byUUID[arg.UUID] = user
	f.usernames[arg.Username] = true
	return user.ID, nil
}

func (f *fakeIdentityStore) TouchLastActivity(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, user := range f.byUUID {
		if user.ID == id {
			user.LastActivityAt = &now
		}
	}
	return nil
}

func (f *fakeIdentityStore) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byUUID)
}

// seedUsername registers a taken username without a wallet binding.
func (f *fakeIdentityStore) seedUsername(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usernames[name] = true
}

type fakeGroupStore struct {
	mu    sync.Mutex
	added map[string][]string
	err   error
}

func (f *fakeGroupStore) AddUsersToGroup(_ context.Context, groupUID string, usernames []string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.added == nil {
		f.added = make(map[string][]string)
	}
	f.added[groupUID] = append(f.added[groupUID], usernames...)
	return nil
}

type fakeEntryInitializer struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (f *fakeEntryInitializer) GenerateDefaultEntries(_ context.Context, ownerID int64) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ownerID)
	return nil
}

type fakeHomeProvisioner struct {
	mu    sync.Mutex
	roots []string
}

func (f *fakeHomeProvisioner) EnsureUserRoot(userUUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roots = append(f.roots, userUUID)
	return nil
}

func newTestProvisioner(t *testing.T, store *fakeIdentityStore, groups *fakeGroupStore, entries *fakeEntryInitializer) *Provisioner {
	t.Helper()
	alloc, err := NewUsernameAllocator(store)
	require.NoError(t, err)
	return NewProvisioner(store, groups, entries, &fakeHomeProvisioner{}, alloc, Options{
		ServerID:               "test-server",
		DefaultUserGroup:       "default",
		DefaultStorageCapacity: 1024,
	})
}

func TestResolveOrCreateNewWallet(t *testing.T) {
	store := newFakeIdentityStore()
	groups := &fakeGroupStore{}
	entries := &fakeEntryInitializer{}
	p := newTestProvisioner(t, store, groups, entries)

	user, err := p.ResolveOrCreate(context.Background(), "0xAbCd1234", "1", RequestContext{
		IP:        "198.51.100.10",
		UserAgent: "test-agent",
		Origin:    "http://localhost",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	require.Equal(t, "0xabcd1234", user.Username)
	require.NotNil(t, user.WalletAddress)
	require.Equal(t, "0xabcd1234", *user.WalletAddress)
	require.NotEqual(t, uuid.Nil, user.UUID)
	require.Equal(t, int64(1024), user.FreeStorage)

	var metadata map[string]interface{}
	require.NoError(t, json.Unmarshal(user.AuditMetadata, &metadata))
	require.Equal(t, "0xabcd1234", metadata["wallet_address"])
	require.Equal(t, "1", metadata["chain_id"])
	require.Equal(t, "test-server", metadata["server"])

	require.Equal(t, []string{"0xabcd1234"}, groups.added["default"])
	require.Equal(t, []int64{user.ID}, entries.calls)
}

func TestResolveOrCreateExistingWalletIsIdempotent(t *testing.T) {
	store := newFakeIdentityStore()
	p := newTestProvisioner(t, store, &fakeGroupStore{}, &fakeEntryInitializer{})

	first, err := p.ResolveOrCreate(context.Background(), "0xAAA111", "1", RequestContext{})
	require.NoError(t, err)

	// Any casing of the same address resolves to the same account.
	second, err := p.ResolveOrCreate(context.Background(), "0xaaa111", "1", RequestContext{})
	require.NoError(t, err)

	require.Equal(t, first.UUID, second.UUID)
	require.Equal(t, first.Username, second.Username)
	require.Equal(t, first.WalletAddress, second.WalletAddress)
	require.Equal(t, 1, store.userCount())
	require.Equal(t, 1, store.createCalls)
}

func TestResolveOrCreateMissingAddress(t *testing.T) {
	store := newFakeIdentityStore()
	p := newTestProvisioner(t, store, &fakeGroupStore{}, &fakeEntryInitializer{})

	_, err := p.ResolveOrCreate(context.Background(), "", "1", RequestContext{})
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	require.Equal(t, "address", FieldOf(err))
	require.Equal(t, 0, store.userCount())
}

func TestResolveOrCreateUsernameCollision(t *testing.T) {
	store := newFakeIdentityStore()
	store.seedUsername("0xabc999")
	p := newTestProvisioner(t, store, &fakeGroupStore{}, &fakeEntryInitializer{})

	user, err := p.ResolveOrCreate(context.Background(), "0xABC999", "1", RequestContext{})
	require.NoError(t, err)

	require.NotEqual(t, "0xabc999", user.Username)
	require.Len(t, user.Username, usernameLength)
	require.NotNil(t, user.WalletAddress)
	require.Equal(t, "0xabc999", *user.WalletAddress)
}

func TestResolveOrCreateConcurrentSameAddress(t *testing.T) {
	store := newFakeIdentityStore()
	p := newTestProvisioner(t, store, &fakeGroupStore{}, &fakeEntryInitializer{})

	const workers = 16
	results := make(chan uuid.UUID, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, err := p.ResolveOrCreate(context.Background(), "0xRace01", "1", RequestContext{})
			if err != nil {
				errs <- err
				return
			}
			results <- user.UUID
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent resolve failed: %v", err)
	}

	var firstUUID uuid.UUID
	count := 0
	for id := range results {
		if count == 0 {
			firstUUID = id
		}
		require.Equal(t, firstUUID, id)
		count++
	}
	require.Equal(t, workers, count)
	require.Equal(t, 1, store.userCount())
}

func TestResolveOrCreateDependencyFailureSurfaced(t *testing.T) {
	store := newFakeIdentityStore()
	groups := &fakeGroupStore{err: errors.New("group service down")}
	p := newTestProvisioner(t, store, groups, &fakeEntryInitializer{})

	_, err := p.ResolveOrCreate(context.Background(), "0xDEAD01", "1", RequestContext{})
	require.Error(t, err)
	require.Equal(t, KindDependency, KindOf(err))

	// The user row exists despite the failure; a later login resolves it.
	require.Equal(t, 1, store.userCount())
	groups.err = nil
	user, err := p.ResolveOrCreate(context.Background(), "0xDEAD01", "1", RequestContext{})
	require.NoError(t, err)
	require.NotNil(t, user.WalletAddress)
	require.Equal(t, "0xdead01", *user.WalletAddress)
}

func TestKindOfForeignError(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
