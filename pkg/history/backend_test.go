package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"instaviewer/pkg/config"
	"instaviewer/pkg/logger"
)

// exerciseBackend runs the shared contract against b
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()

	list, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, b.Save([]string{"alice", "bob"}))
	list, err = b.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, list)

	require.NoError(t, b.Save([]string{"carol"}))
	list, err = b.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, list)

	require.NoError(t, b.Remove())
	require.NoError(t, b.Remove(), "removing twice is fine")
	list, err = b.Load()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, b.Close())
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestFileBackendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Save([]string{"alice"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recentSearches": ["alice"]}`, string(data))
	assert.NoFileExists(t, path+".tmp")
}

func TestFileBackendCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	b, err := NewFileBackend(path)
	require.NoError(t, err)
	_, err = b.Load()
	assert.Error(t, err)

	// The Store hides the corruption
	assert.Empty(t, NewRecent(b, nil).Read())
}

func TestEncryptedBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.enc")
	b, err := NewEncryptedBackend(path, "correct horse")
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestEncryptedBackendHidesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.enc")
	b, err := NewEncryptedBackend(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, b.Save([]string{"secretuser"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secretuser")

	wrong, err := NewEncryptedBackend(path, "battery staple")
	require.NoError(t, err)
	_, err = wrong.Load()
	assert.Error(t, err)

	_, err = NewEncryptedBackend(path, "")
	assert.ErrorIs(t, err, ErrNoPassphrase)
}

func TestKeyringBackend(t *testing.T) {
	keyring.MockInit()

	b, err := NewKeyringBackend()
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestSQLiteBackendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Save([]string{"alice"}))
	require.NoError(t, b.Close())

	reopened, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer reopened.Close()

	list, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, list)
}

func TestOpen(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.HistoryConfig
		persist bool
	}{
		{"file", config.HistoryConfig{Backend: config.HistoryBackendFile, Path: filepath.Join(dir, "h.json")}, true},
		{"encrypted", config.HistoryConfig{Backend: config.HistoryBackendEncrypted, Path: filepath.Join(dir, "h.enc"), Passphrase: "pw"}, true},
		{"sqlite", config.HistoryConfig{Backend: config.HistoryBackendSQLite, Path: filepath.Join(dir, "h.db")}, true},
		{"keyring", config.HistoryConfig{Backend: config.HistoryBackendKeyring}, true},
		{"none", config.HistoryConfig{Backend: config.HistoryBackendNone}, false},
		{"encrypted without passphrase degrades", config.HistoryConfig{Backend: config.HistoryBackendEncrypted, Path: filepath.Join(dir, "x.enc")}, false},
		{"unknown degrades", config.HistoryConfig{Backend: "redis"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := Open(&tt.cfg, logger.NewTestLogger())
			defer store.Close()

			store.Add("alice")
			if tt.persist {
				assert.Equal(t, []string{"alice"}, store.Read())
			} else {
				assert.Empty(t, store.Read())
			}
		})
	}
}

func TestOpenFileDefaultPath(t *testing.T) {
	if _, err := os.UserHomeDir(); err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	store := Open(&config.HistoryConfig{Backend: config.HistoryBackendFile}, nil)
	store.Add("bob")
	assert.Equal(t, []string{"bob"}, store.Read())
}
