package imagecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndGet(t *testing.T) {
	c := New()
	defer c.Close()

	id, err := c.Store([]byte("image-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestGetUnknownSession(t *testing.T) {
	c := New()
	defer c.Close()

	_, err := c.Get("no-such-session")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAfterTTLExpires(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := New(WithTTL(10*time.Second), withClock(func() time.Time { return clock() }))
	defer c.Close()

	id, err := c.Store([]byte("stale"))
	require.NoError(t, err)

	now = now.Add(11 * time.Second)
	_, err = c.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	// The expired entry is removed on access, not resurrected later.
	assert.Equal(t, 0, c.Len())
	now = now.Add(-11 * time.Second)
	_, err = c.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCapacityExceeded(t *testing.T) {
	c := New(WithMaxEntries(2))
	defer c.Close()

	first, err := c.Store([]byte("a"))
	require.NoError(t, err)
	_, err = c.Store([]byte("b"))
	require.NoError(t, err)

	_, err = c.Store([]byte("c"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// Unexpired entries must not be evicted to make room.
	data, err := c.Get(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
}

func TestStoreEvictsExpiredBeforeRejecting(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := New(WithTTL(10*time.Second), WithMaxEntries(1), withClock(func() time.Time { return clock() }))
	defer c.Close()

	_, err := c.Store([]byte("old"))
	require.NoError(t, err)

	now = now.Add(11 * time.Second)
	id, err := c.Store([]byte("new"))
	require.NoError(t, err)

	data, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
	assert.Equal(t, 1, c.Len())
}

func TestPeriodicSweep(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := New(
		WithTTL(time.Millisecond),
		WithSweepInterval(5*time.Millisecond),
		withClock(func() time.Time { return clock() }),
	)
	defer c.Close()

	_, err := c.Store([]byte("sweep-me"))
	require.NoError(t, err)
	now = now.Add(time.Second)

	go c.Run(t.Context())

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}
