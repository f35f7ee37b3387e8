package store

import (
	"context"
	"errors"
	"testing"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/versioning"

	"github.com/stretchr/testify/require"
)

func TestPebbleValueStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewPebbleValueStore[string]("words", t.TempDir(), stringBytesConfig(commtypes.MSGP))
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))
	defer s.Close(ctx)
	RunValueStoreTests(ctx, s, t)
}

func TestPebbleStoresAreNamespaced(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := NewPebbleValueStore[string]("a", dir, stringBytesConfig(commtypes.MSGP))
	require.NoError(t, err)
	require.NoError(t, a.Start(ctx))
	defer a.Close(ctx)
	require.NoError(t, a.Write(ctx, "k", versioning.RawRecord{Payload: []byte("from a")}))

	b, err := NewPebbleValueStore[string]("b", dir, stringBytesConfig(commtypes.MSGP))
	require.NoError(t, err)
	b.db = a.db
	_, ok, err := b.Read(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok, "store b must not see keys of store a")
}

func TestPebbleValueStoreClosed(t *testing.T) {
	ctx := context.Background()
	s, err := NewPebbleValueStore[string]("words", t.TempDir(), stringBytesConfig(commtypes.MSGP))
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	_, _, err = s.Read(ctx, "a")
	require.True(t, errors.Is(err, common_errors.ErrStoreUnavailable))
	err = s.Write(ctx, "a", versioning.RawRecord{Payload: []byte("1")})
	require.True(t, errors.Is(err, common_errors.ErrStoreUnavailable))
}
