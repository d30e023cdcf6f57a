package database

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAndAttributeAuthAttempt(t *testing.T) {
	userID, _ := createWalletUser(t, "0xAudit01")

	// Attempts are recorded before the account is resolved, so without a
	// user id at first.
	auditID, err := testStore.RecordAuthAttempt(context.Background(), RecordAuthAttemptParams{
		Requester: map[string]string{"ip": "198.51.100.10"},
		Action:    "auth:particle",
		Body:      json.RawMessage(`{"address":"0xaudit01","chainId":1}`),
	})
	require.NoError(t, err)
	require.Greater(t, auditID, int64(0))

	entries, err := testStore.ListAuditSince(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, testStore.AttributeAuditToUser(context.Background(), auditID, userID))

	entries, err = testStore.ListAuditSince(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, auditID, entries[0].ID)
	require.Equal(t, "auth:particle", entries[0].Action)
}

func TestListAuditSinceCursor(t *testing.T) {
	userID, _ := createWalletUser(t, "0xAudit02")

	var lastID int64
	for i := 0; i < 3; i++ {
		id, err := testStore.RecordAuthAttempt(context.Background(), RecordAuthAttemptParams{
			UserID:    &userID,
			Requester: map[string]string{"ip": "198.51.100.10"},
			Action:    "auth:particle",
		})
		require.NoError(t, err)
		lastID = id
	}

	entries, err := testStore.ListAuditSince(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	entries, err = testStore.ListAuditSince(context.Background(), userID, lastID-1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, lastID, entries[0].ID)
}

func TestRecordAuthAttemptEmptyBody(t *testing.T) {
	id, err := testStore.RecordAuthAttempt(context.Background(), RecordAuthAttemptParams{
		Requester: map[string]string{"ip": "203.0.113.5"},
		Action:    "auth:password",
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))
}
