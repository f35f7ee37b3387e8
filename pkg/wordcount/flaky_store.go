package wordcount

import (
	"context"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/store"
	"versioned-state/pkg/utils/syncutils"
	"versioned-state/pkg/versioning"

	"golang.org/x/xerrors"
)

// FlakyStore fails every failEvery-th write while armed, standing in for a
// worker that crashes half way through committing a batch.
type FlakyStore[K any] struct {
	store.ValueStore[K]
	mu        syncutils.Mutex
	armed     bool
	failEvery int
	writes    int
	failed    int
}

var _ = store.ValueStore[string](&FlakyStore[string]{})

func NewFlakyStore[K any](inner store.ValueStore[K], failEvery int) *FlakyStore[K] {
	if failEvery <= 0 {
		failEvery = 2
	}
	return &FlakyStore[K]{ValueStore: inner, failEvery: failEvery}
}

func (f *FlakyStore[K]) Arm(armed bool) {
	f.mu.Lock()
	f.armed = armed
	f.writes = 0
	f.mu.Unlock()
}

func (f *FlakyStore[K]) Failed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed
}

func (f *FlakyStore[K]) Write(ctx context.Context, key K, rec versioning.RawRecord) error {
	f.mu.Lock()
	fail := false
	if f.armed {
		f.writes++
		fail = f.writes%f.failEvery == 0
		if fail {
			f.failed++
		}
	}
	f.mu.Unlock()
	if fail {
		return xerrors.Errorf("simulated crash writing %v: %w", key, common_errors.ErrStoreUnavailable)
	}
	return f.ValueStore.Write(ctx, key, rec)
}

func (f *FlakyStore[K]) Close(ctx context.Context) error {
	if c, ok := f.ValueStore.(store.Closer); ok {
		return c.Close(ctx)
	}
	return nil
}
