package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionAndLiveness(t *testing.T) {
	userID, _ := createWalletUser(t, "0xSession01")

	token := "session-token-" + uuid.NewString()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		UserAgent: "test-agent",
		ClientIP:  "198.51.100.10",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	alive, err := testStore.SessionTokenAlive(context.Background(), token)
	require.NoError(t, err)
	require.True(t, alive)

	user, err := testStore.GetUserBySessionToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, userID, user.ID)

	alive, err = testStore.SessionTokenAlive(context.Background(), "unknown-token")
	require.NoError(t, err)
	require.False(t, alive)
}

func TestExpiredSessionNotAlive(t *testing.T) {
	userID, _ := createWalletUser(t, "0xSession02")

	token := "expired-token-" + uuid.NewString()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	alive, err := testStore.SessionTokenAlive(context.Background(), token)
	require.NoError(t, err)
	require.False(t, alive)

	user, err := testStore.GetUserBySessionToken(context.Background(), token)
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestListAndDeleteSessions(t *testing.T) {
	userID, _ := createWalletUser(t, "0xSession03")

	firstID := uuid.New()
	for _, id := range []uuid.UUID{firstID, uuid.New()} {
		err := testStore.CreateSession(context.Background(), CreateSessionParams{
			ID:        id,
			UserID:    userID,
			Token:     "token-" + id.String(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
	}

	sessions, err := testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	require.NoError(t, testStore.DeleteSessionByID(context.Background(), firstID, userID))
	sessions, err = testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	require.NoError(t, testStore.DeleteAllSessionsForUser(context.Background(), userID))
	sessions, err = testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}
