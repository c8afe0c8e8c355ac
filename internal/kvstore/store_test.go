package kvstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/coursereg/internal/kvstore"
)

func TestFileStore_GetAbsentKey(t *testing.T) {
	t.Parallel()

	store := kvstore.NewFileStore(t.TempDir())

	value, err := store.Get(context.Background(), kvstore.KeyToken)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestFileStore_SetAndGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{
			name:  "generation selection",
			key:   kvstore.KeySelectedGeneration,
			value: "3기",
		},
		{
			name:  "course id list",
			key:   kvstore.KeyCourseID,
			value: "[7, 9]",
		},
		{
			name:  "empty value",
			key:   kvstore.KeyToken,
			value: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := kvstore.NewFileStore(t.TempDir())
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, tt.key, tt.value))

			got, err := store.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestFileStore_OverwriteKeepsOtherKeys(t *testing.T) {
	t.Parallel()

	store := kvstore.NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kvstore.KeyUserID, "3"))
	require.NoError(t, store.Set(ctx, kvstore.KeySelectedGeneration, "3기"))
	require.NoError(t, store.Set(ctx, kvstore.KeySelectedGeneration, "4기"))

	generation, err := store.Get(ctx, kvstore.KeySelectedGeneration)
	require.NoError(t, err)
	assert.Equal(t, "4기", generation)

	userID, err := store.Get(ctx, kvstore.KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "3", userID)
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()

	store := kvstore.NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kvstore.KeyToken, "tok"))
	require.NoError(t, store.Delete(ctx, kvstore.KeyToken))

	value, err := store.Get(ctx, kvstore.KeyToken)
	require.NoError(t, err)
	assert.Empty(t, value)

	// Deleting an absent key is a no-op
	require.NoError(t, store.Delete(ctx, kvstore.KeyToken))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	first := kvstore.NewFileStore(dir)
	require.NoError(t, first.Set(ctx, kvstore.KeyIdentityUserName, "Kim"))

	second := kvstore.NewFileStore(dir)
	got, err := second.Get(ctx, kvstore.KeyIdentityUserName)
	require.NoError(t, err)
	assert.Equal(t, "Kim", got)
}

func TestFileStore_CreatesDirectoryOnFirstWrite(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "state")
	store := kvstore.NewFileStore(dir)

	require.NoError(t, store.Set(context.Background(), kvstore.KeyToken, "tok"))

	_, err := os.Stat(filepath.Join(dir, kvstore.StoreFileName))
	assert.NoError(t, err)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, kvstore.StoreFileName), []byte("not json"), 0600))

	store := kvstore.NewFileStore(dir)
	_, err := store.Get(context.Background(), kvstore.KeyToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal store data")
}

func TestFileStore_LeavesNoTemporaryFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := kvstore.NewFileStore(dir)

	require.NoError(t, store.Set(context.Background(), kvstore.KeyToken, "tok"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, kvstore.StoreFileName, entries[0].Name())
}
