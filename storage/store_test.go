package storage_test

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/nicolagi/verbstore/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreImplementations(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(*testing.T) storage.Store
	}{
		{
			name: "Store implementation backed by a map",
			setup: func(*testing.T) storage.Store {
				return storage.NewInMemoryStore()
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testStore(t, tc.setup(t))
		})
	}
}

func TestInMemoryStoreLen(t *testing.T) {
	s := storage.NewInMemoryStore()
	assert.Equal(t, 0, s.Len())
	s.Put("a", []byte("1"))
	s.Put("b", []byte("2"))
	s.Put("a", []byte("3"))
	assert.Equal(t, 2, s.Len())
	s.Delete("a")
	s.Delete("a")
	assert.Equal(t, 1, s.Len())
}

func testStore(t *testing.T, store storage.Store) {
	rand.Seed(time.Now().UnixNano())
	t.Run("what you put is what you get", func(t *testing.T) {
		key := randomKey()
		store.Put(key, []byte("hello"))
		storedValue, found := store.Get(key)
		require.True(t, found)
		assert.Equal(t, []byte("hello"), storedValue)
	})
	t.Run("not found on not existing key", func(t *testing.T) {
		value, found := store.Get(randomKey())
		assert.False(t, found)
		assert.Nil(t, value)
	})
	t.Run("last put wins", func(t *testing.T) {
		key := randomKey()
		store.Put(key, []byte("hello"))
		store.Put(key, []byte("goodbye"))
		value, found := store.Get(key)
		require.True(t, found)
		assert.Equal(t, []byte("goodbye"), value)
	})
	t.Run("can put a nil value, get non-nil empty slice", func(t *testing.T) {
		key := randomKey()
		store.Put(key, nil)
		value, found := store.Get(key)
		assert.True(t, found)
		assert.Equal(t, []byte{}, value)
	})
	t.Run("can put an empty value", func(t *testing.T) {
		key := randomKey()
		store.Put(key, []byte{})
		value, found := store.Get(key)
		assert.True(t, found)
		assert.Equal(t, []byte{}, value)
	})
	t.Run("mutating value should not affect stored pairs", func(t *testing.T) {
		key := randomKey()
		before := []byte("old value")
		store.Put(key, before)
		copy(before, "new")
		after, found := store.Get(key)
		if !found {
			t.Fatalf("key %q not found", key)
		}
		if want := []byte("old value"); !bytes.Equal(want, after) {
			t.Errorf("got %q, want %q", after, want)
		}
	})
	t.Run("delete removes the key", func(t *testing.T) {
		key := randomKey()
		store.Put(key, []byte("value"))
		store.Delete(key)
		_, found := store.Get(key)
		assert.False(t, found)
	})
	t.Run("delete of absent key is a no-op", func(t *testing.T) {
		other := randomKey()
		store.Put(other, []byte("kept"))
		store.Delete(randomKey())
		value, found := store.Get(other)
		assert.True(t, found)
		assert.Equal(t, []byte("kept"), value)
	})
	t.Run("keys are not normalized", func(t *testing.T) {
		store.Put("a/b", []byte("slash"))
		_, found := store.Get("a%2Fb")
		assert.False(t, found)
		value, found := store.Get("a/b")
		assert.True(t, found)
		assert.Equal(t, []byte("slash"), value)
	})
}

func randomKey() string {
	return fmt.Sprintf("k%016x", rand.Int63())
}
