package state

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/store"
	"versioned-state/pkg/versioning"

	"4d63.com/optional"
	"github.com/stretchr/testify/require"
)

// countingStore counts calls and fails the keys listed in failWrite.
type countingStore struct {
	store.ValueStore[string]
	reads     atomic.Int64
	writes    atomic.Int64
	failWrite map[string]error
	failRead  map[string]error
}

func (s *countingStore) Read(ctx context.Context, key string) (versioning.RawRecord, bool, error) {
	s.reads.Add(1)
	if err, ok := s.failRead[key]; ok {
		return versioning.RawRecord{}, false, err
	}
	return s.ValueStore.Read(ctx, key)
}

func (s *countingStore) Write(ctx context.Context, key string, rec versioning.RawRecord) error {
	s.writes.Add(1)
	if err, ok := s.failWrite[key]; ok {
		return err
	}
	return s.ValueStore.Write(ctx, key, rec)
}

func newMemStore(name string) *store.InMemoryValueStore[string] {
	return store.NewInMemoryValueStore(name, func(a, b string) bool { return strings.Compare(a, b) < 0 })
}

func newCountingStore() *countingStore {
	return &countingStore{
		ValueStore: newMemStore("counts"),
		failWrite:  map[string]error{},
		failRead:   map[string]error{},
	}
}

func newCountState(t testing.TB, mode versioning.StateType) (*VersionedMapState[string, int64], *countingStore) {
	st := newCountingStore()
	s, err := NewVersionedMapState[string, int64](st, mode, commtypes.Int64SerdeG{})
	require.NoError(t, err)
	return s, st
}

func getOne(t testing.TB, s *VersionedMapState[string, int64], key string) optional.Optional[int64] {
	t.Helper()
	vals, err := s.BatchGet(context.Background(), []string{key})
	require.NoError(t, err)
	require.Len(t, vals, 1)
	return vals[0]
}

func requireValue(t testing.TB, s *VersionedMapState[string, int64], key string, expected int64) {
	t.Helper()
	v, ok := getOne(t, s, key).Get()
	require.True(t, ok, "%s should be present", key)
	require.Equal(t, expected, v)
}

var allModes = []versioning.StateType{versioning.NonTransactional, versioning.Transactional, versioning.Opaque}
