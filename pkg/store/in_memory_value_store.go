package store

import (
	"context"

	"versioned-state/pkg/utils/syncutils"
	"versioned-state/pkg/versioning"

	"github.com/google/btree"
)

type recordItem[K any] struct {
	key K
	rec versioning.RawRecord
}

type LessFunc[K any] func(k1, k2 K) bool

// InMemoryValueStore keeps records in a btree ordered by key. Records are
// copied on the way in and out so callers never share memory with the tree.
type InMemoryValueStore[K any] struct {
	mux   syncutils.Mutex
	store *btree.BTreeG[recordItem[K]]
	name  string
}

var _ = ValueStore[int](&InMemoryValueStore[int]{})

func NewInMemoryValueStore[K any](name string, lessFunc LessFunc[K]) *InMemoryValueStore[K] {
	return &InMemoryValueStore[K]{
		name: name,
		store: btree.NewG(2, btree.LessFunc[recordItem[K]](
			func(a, b recordItem[K]) bool {
				return lessFunc(a.key, b.key)
			})),
	}
}

func (st *InMemoryValueStore[K]) Name() string {
	return st.name
}

func (st *InMemoryValueStore[K]) TableType() TABLE_TYPE {
	return IN_MEM
}

func (st *InMemoryValueStore[K]) Read(ctx context.Context, key K) (versioning.RawRecord, bool, error) {
	st.mux.Lock()
	defer st.mux.Unlock()
	item, exists := st.store.Get(recordItem[K]{key: key})
	if !exists {
		return versioning.RawRecord{}, false, nil
	}
	return item.rec.Clone(), true, nil
}

func (st *InMemoryValueStore[K]) Write(ctx context.Context, key K, rec versioning.RawRecord) error {
	st.mux.Lock()
	defer st.mux.Unlock()
	st.store.ReplaceOrInsert(recordItem[K]{key: key, rec: rec.Clone()})
	return nil
}

func (st *InMemoryValueStore[K]) ApproximateNumEntries() uint64 {
	st.mux.Lock()
	defer st.mux.Unlock()
	return uint64(st.store.Len())
}

// Range visits records in key order until iterFunc returns an error.
func (st *InMemoryValueStore[K]) Range(iterFunc func(K, versioning.RawRecord) error) error {
	st.mux.Lock()
	defer st.mux.Unlock()
	var err error
	st.store.Ascend(func(item recordItem[K]) bool {
		err = iterFunc(item.key, item.rec.Clone())
		return err == nil
	})
	return err
}
