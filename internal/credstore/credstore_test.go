package credstore

import (
	"path/filepath"
	"testing"

	"github.com/mrlokans/goodreads-backup/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	store, err := New(Config{
		DatabasePath:  filepath.Join(t.TempDir(), "creds.db"),
		EncryptionKey: key,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(ServiceGoodreads, KeyUserID, "12345678"))
	require.NoError(t, store.Set(ServiceGoodreads, KeyAPIKey, "secret-key"))

	userID, err := store.Get(ServiceGoodreads, KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "12345678", userID)

	apiKey, err := store.Get(ServiceGoodreads, KeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", apiKey)
}

func TestStore_GetMissingReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	value, err := store.Get(ServiceGoodreads, KeyAPIKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestStore_SetOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(ServiceGoodreads, KeyAPIKey, "old"))
	require.NoError(t, store.Set(ServiceGoodreads, KeyAPIKey, "new"))

	value, err := store.Get(ServiceGoodreads, KeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "new", value)

	var count int64
	store.db.Model(&Credential{}).Count(&count)
	assert.Equal(t, int64(1), count, "overwrite must not create a second row")
}

func TestStore_ValuesEncryptedAtRest(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(ServiceGoodreads, KeyAPIKey, "plaintext-secret"))

	var cred Credential
	require.NoError(t, store.db.Where("service = ? AND key = ?", ServiceGoodreads, KeyAPIKey).First(&cred).Error)
	assert.NotEqual(t, "plaintext-secret", cred.Value)
	assert.NotContains(t, cred.Value, "plaintext-secret")
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(ServiceGoodreads, KeyUserID, "1"))
	require.NoError(t, store.Delete(ServiceGoodreads, KeyUserID))

	value, err := store.Get(ServiceGoodreads, KeyUserID)
	require.NoError(t, err)
	assert.Empty(t, value)
}
