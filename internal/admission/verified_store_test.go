package admission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestVerifiedStoreInsertAndContains(t *testing.T) {
	s := NewVerifiedStore(10, time.Hour, nil)
	id := uuid.New()
	require.False(t, s.Contains("1.2.3.4", id))
	s.Insert("1.2.3.4", id, "steve")
	require.True(t, s.Contains("1.2.3.4", id))
}

func TestVerifiedStoreTTLExpiry(t *testing.T) {
	s := NewVerifiedStore(10, 10*time.Millisecond, nil)
	id := uuid.New()
	s.Insert("1.2.3.4", id, "steve")
	require.True(t, s.Contains("1.2.3.4", id))

	time.Sleep(20 * time.Millisecond)
	require.False(t, s.Contains("1.2.3.4", id))
}

func TestVerifiedStoreEvictsLRUAtCapacity(t *testing.T) {
	s := NewVerifiedStore(2, time.Hour, nil)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	s.Insert("a", a, "a")
	s.Insert("b", b, "b")
	s.Insert("c", c, "c") // should evict "a", the LRU entry

	require.False(t, s.Contains("a", a))
	require.True(t, s.Contains("b", b))
	require.True(t, s.Contains("c", c))
	require.Equal(t, 2, s.Size())
}

func TestVerifiedStoreContainsRefreshesRecency(t *testing.T) {
	s := NewVerifiedStore(2, time.Hour, nil)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	s.Insert("a", a, "a")
	s.Insert("b", b, "b")
	require.True(t, s.Contains("a", a)) // touch "a" so "b" becomes LRU
	s.Insert("c", c, "c")                // should evict "b", not "a"

	require.True(t, s.Contains("a", a))
	require.False(t, s.Contains("b", b))
}

func TestVerifiedStoreLoadsFromPersisterAtConstruction(t *testing.T) {
	p := NewMemoryPersister()
	id := uuid.New()
	require.NoError(t, p.Put(VerifiedEntry{IP: "9.9.9.9", UUID: id, Username: "alex", At: time.Now()}))

	s := NewVerifiedStore(10, time.Hour, p)
	require.True(t, s.Contains("9.9.9.9", id))
}
