package store

import (
	"context"
	"errors"
	"testing"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/versioning"

	"github.com/stretchr/testify/require"
)

func newCachingForTest(t *testing.T, size int) (*CachingValueStore[string], *faultStore) {
	inner := &faultStore{ValueStore: getInMemoryValueStore()}
	c, err := NewCachingValueStore[string](inner, size)
	require.NoError(t, err)
	return c, inner
}

func TestCachingValueStoreContract(t *testing.T) {
	c, _ := newCachingForTest(t, 16)
	RunValueStoreTests(context.Background(), c, t)
}

func TestCachingServesRepeatedReads(t *testing.T) {
	ctx := context.Background()
	c, inner := newCachingForTest(t, 16)
	require.NoError(t, inner.ValueStore.Write(ctx, "a", versioning.RawRecord{Payload: []byte("1"), TxID: 1, HasTxID: true}))

	for i := 0; i < 3; i++ {
		rec, ok, err := c.Read(ctx, "a")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("1"), rec.Payload)
	}
	require.Equal(t, 1, inner.reads)
	require.InDelta(t, 2.0/3.0, c.HitRatio(), 1e-9)
}

func TestCachingDoesNotCacheAbsence(t *testing.T) {
	ctx := context.Background()
	c, inner := newCachingForTest(t, 16)
	_, ok, err := c.Read(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, inner.ValueStore.Write(ctx, "a", versioning.RawRecord{Payload: []byte("1")}))
	_, ok, err = c.Read(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCachingWriteThrough(t *testing.T) {
	ctx := context.Background()
	c, inner := newCachingForTest(t, 16)
	rec := versioning.RawRecord{Payload: []byte("15"), Prior: []byte("10"), TxID: 2, HasTxID: true}
	require.NoError(t, c.Write(ctx, "a", rec))
	require.Equal(t, 1, inner.writes)

	got, ok, err := c.Read(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec, got)
	require.Equal(t, 0, inner.reads, "read after write should be served from cache")
}

func TestCachingDropsKeyOnFailedWrite(t *testing.T) {
	ctx := context.Background()
	c, inner := newCachingForTest(t, 16)
	require.NoError(t, c.Write(ctx, "a", versioning.RawRecord{Payload: []byte("1"), TxID: 1, HasTxID: true}))

	inner.writeErr = unavailable("test", "write", errors.New("connection reset"))
	err := c.Write(ctx, "a", versioning.RawRecord{Payload: []byte("2"), TxID: 2, HasTxID: true})
	require.True(t, errors.Is(err, common_errors.ErrStoreUnavailable))

	inner.writeErr = nil
	got, ok, err := c.Read(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("1"), got.Payload)
	require.Equal(t, 1, inner.reads, "failed write must invalidate the cached entry")
}

func TestCachingPropagatesReadError(t *testing.T) {
	c, inner := newCachingForTest(t, 16)
	inner.readErr = unavailable("test", "read", errors.New("dial tcp: refused"))
	_, _, err := c.Read(context.Background(), "a")
	require.True(t, errors.Is(err, common_errors.ErrStoreUnavailable))
}

func TestCachingInvalidate(t *testing.T) {
	ctx := context.Background()
	c, inner := newCachingForTest(t, 16)
	require.NoError(t, c.Write(ctx, "a", versioning.RawRecord{Payload: []byte("1")}))
	c.Invalidate()
	_, _, err := c.Read(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, inner.reads)
}
