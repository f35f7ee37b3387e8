package state

import (
	"context"

	"4d63.com/optional"
	"golang.org/x/xerrors"
)

const DEFAULT_GLOBAL_KEY = "$GLOBAL$"

// SnapshottableMap exposes a single aggregate, such as a stream-wide
// total, stored under one reserved key of a VersionedMapState.
type SnapshottableMap[K, V any] struct {
	state *VersionedMapState[K, V]
	key   K
}

func NewSnapshottableMap[K, V any](state *VersionedMapState[K, V], globalKey K) *SnapshottableMap[K, V] {
	return &SnapshottableMap[K, V]{state: state, key: globalKey}
}

func (m *SnapshottableMap[K, V]) Get(ctx context.Context) (optional.Optional[V], error) {
	vals, err := m.state.BatchGet(ctx, []K{m.key})
	if err != nil {
		return optional.Empty[V](), unwrapSingle[K](err)
	}
	return vals[0], nil
}

func (m *SnapshottableMap[K, V]) Set(ctx context.Context, v V, txid uint64) error {
	return unwrapSingle[K](m.state.BatchPut(ctx, []K{m.key}, []V{v}, txid))
}

func (m *SnapshottableMap[K, V]) Update(ctx context.Context, updater ValueUpdater[V], txid uint64) (V, error) {
	vals, err := m.state.BatchUpdate(ctx, []K{m.key}, []ValueUpdater[V]{updater}, txid)
	if err != nil {
		var zero V
		return zero, unwrapSingle[K](err)
	}
	return vals[0], nil
}

// unwrapSingle hands back the cause of a one-key batch failure.
func unwrapSingle[K any](err error) error {
	var be *BatchError[K]
	if xerrors.As(err, &be) && len(be.Failed) == 1 {
		return be.Failed[0].Err
	}
	return err
}
