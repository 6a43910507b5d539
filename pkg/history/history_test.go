package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"instaviewer/pkg/logger"
)

func TestPush(t *testing.T) {
	tests := []struct {
		name     string
		list     []string
		username string
		want     []string
	}{
		{"empty", nil, "alice", []string{"alice"}},
		{"prepend", []string{"bob"}, "alice", []string{"alice", "bob"}},
		{"move to front", []string{"bob", "alice", "carol"}, "alice", []string{"alice", "bob", "carol"}},
		{"case-insensitive keeps latest casing", []string{"Alice", "bob"}, "alice", []string{"alice", "bob"}},
		{"truncates", []string{"a", "b", "c", "d", "e"}, "f", []string{"f", "a", "b", "c", "d"}},
		{"dedup then keep five", []string{"a", "b", "c", "d", "e"}, "C", []string{"C", "a", "b", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Push(tt.list, tt.username))
		})
	}
}

func TestPushDoesNotMutateInput(t *testing.T) {
	list := []string{"a", "b"}
	Push(list, "b")
	assert.Equal(t, []string{"a", "b"}, list)
}

// memoryBackend is an in-memory Backend with injectable failures
type memoryBackend struct {
	list    []string
	loadErr error
	saveErr error
	rmErr   error
	saves   int
}

func (m *memoryBackend) Load() ([]string, error) { return m.list, m.loadErr }
func (m *memoryBackend) Save(l []string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.list = append([]string(nil), l...)
	return nil
}
func (m *memoryBackend) Remove() error {
	if m.rmErr != nil {
		return m.rmErr
	}
	m.list = nil
	return nil
}
func (m *memoryBackend) Close() error { return nil }

func TestRecentAddCasing(t *testing.T) {
	store := NewRecent(&memoryBackend{}, logger.NewNopLogger())

	store.Add("Alice")
	got := store.Add("alice")

	assert.Equal(t, []string{"alice"}, got)
	assert.Equal(t, []string{"alice"}, store.Read())
}

func TestRecentKeepsFive(t *testing.T) {
	store := NewRecent(&memoryBackend{}, nil)
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		store.Add(u)
	}
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, store.Read())
}

func TestRecentIgnoresBlank(t *testing.T) {
	backend := &memoryBackend{list: []string{"bob"}}
	store := NewRecent(backend, nil)

	assert.Equal(t, []string{"bob"}, store.Add("   "))
	assert.Zero(t, backend.saves)
}

func TestRecentSanitizesStoredList(t *testing.T) {
	store := NewRecent(&memoryBackend{list: []string{"a", "", " ", "b", "c", "d", "e", "f"}}, nil)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, store.Read())
}

func TestRecentDegradesOnBackendErrors(t *testing.T) {
	log := logger.NewTestLogger()
	backend := &memoryBackend{
		loadErr: errors.New("disk unplugged"),
		saveErr: errors.New("read-only"),
		rmErr:   errors.New("permission denied"),
	}
	store := NewRecent(backend, log)

	assert.NotPanics(t, func() {
		assert.Equal(t, []string{}, store.Read())
		assert.Equal(t, []string{"alice"}, store.Add("alice"))
		store.Clear()
	})
	assert.Len(t, log.GetMessagesByLevel("DEBUG"), 4)
	assert.False(t, log.HasError())
}

func TestRecentClear(t *testing.T) {
	store := NewRecent(&memoryBackend{list: []string{"a"}}, nil)
	store.Clear()
	assert.Empty(t, store.Read())
}

func TestNop(t *testing.T) {
	var store Store = Nop{}
	assert.Empty(t, store.Add("alice"))
	assert.Empty(t, store.Read())
	assert.NotPanics(t, store.Clear)
}
