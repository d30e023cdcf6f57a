package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultEntries(t *testing.T) {
	userID, _ := createWalletUser(t, "0xEntries01")

	require.NoError(t, testStore.GenerateDefaultEntries(context.Background(), userID))

	entries, err := testStore.ListEntriesForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, len(defaultEntryNames)+1)

	var rootID string
	names := make(map[string]bool)
	for _, entry := range entries {
		require.Equal(t, "folder", entry.EntryType)
		if entry.ParentID == nil {
			require.Equal(t, homeEntryName, entry.Name)
			rootID = entry.ID
			continue
		}
		names[entry.Name] = true
	}
	require.NotEmpty(t, rootID)
	for _, name := range defaultEntryNames {
		require.True(t, names[name], "missing default entry %s", name)
	}
	for _, entry := range entries {
		if entry.ParentID != nil {
			require.Equal(t, rootID, *entry.ParentID)
		}
	}
}

func TestGenerateDefaultEntriesIdempotent(t *testing.T) {
	userID, _ := createWalletUser(t, "0xEntries02")

	require.NoError(t, testStore.GenerateDefaultEntries(context.Background(), userID))
	first, err := testStore.ListEntriesForUser(context.Background(), userID)
	require.NoError(t, err)

	// Re-running the initializer for a half-provisioned account must not
	// duplicate or replace anything.
	require.NoError(t, testStore.GenerateDefaultEntries(context.Background(), userID))
	second, err := testStore.ListEntriesForUser(context.Background(), userID)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestListEntriesForUserEmpty(t *testing.T) {
	userID, _ := createWalletUser(t, "0xEntries03")

	entries, err := testStore.ListEntriesForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, entries)
}
