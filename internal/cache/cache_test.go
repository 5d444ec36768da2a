package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutAndGet(t *testing.T) {
	store := NewStore("test", time.Minute)

	store.Put("key", "value", time.Minute)

	value, found := store.Get("key")
	require.True(t, found)
	assert.Equal(t, "value", value)
	assert.True(t, store.Has("key"))
}

func TestStoreMiss(t *testing.T) {
	store := NewStore("test", time.Minute)

	value, found := store.Get("absent")
	assert.False(t, found)
	assert.Nil(t, value)
	assert.False(t, store.Has("absent"))
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore("test", time.Minute)

	store.Put("key", 42, 20*time.Millisecond)

	_, found := store.Get("key")
	require.True(t, found)

	time.Sleep(30 * time.Millisecond)

	_, found = store.Get("key")
	assert.False(t, found, "entry should have expired")
}

func TestStoreOverwriteResetsExpiry(t *testing.T) {
	store := NewStore("test", time.Minute)

	store.Put("key", "old", 20*time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	store.Put("key", "new", 50*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	// The original entry would be expired by now; the overwrite is not
	value, found := store.Get("key")
	require.True(t, found)
	assert.Equal(t, "new", value)
}

func TestStoreFlush(t *testing.T) {
	store := NewStore("test", time.Minute)

	store.Put("a", 1, time.Minute)
	store.Put("b", 2, time.Minute)
	require.Equal(t, 2, store.ItemCount())

	store.Flush()
	assert.Equal(t, 0, store.ItemCount())
}
