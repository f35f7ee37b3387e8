package state

import (
	"fmt"
	"strings"
)

// KeyError is the failure of one key of a batch. Index is the position of the
// key in the caller's slice.
type KeyError[K any] struct {
	Index int
	Key   K
	Err   error
}

func (e KeyError[K]) Error() string {
	return fmt.Sprintf("key %v (#%d): %v", e.Key, e.Index, e.Err)
}

func (e KeyError[K]) Unwrap() error {
	return e.Err
}

// BatchError lists every key of a batch that failed, ordered by index. The
// other keys of the batch were applied.
type BatchError[K any] struct {
	Total  int
	Failed []KeyError[K]
}

func (e *BatchError[K]) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d keys failed", len(e.Failed), e.Total)
	for i, ke := range e.Failed {
		if i == 3 {
			b.WriteString("; ...")
			break
		}
		fmt.Fprintf(&b, "; %s", ke.Error())
	}
	return b.String()
}

func (e *BatchError[K]) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, ke := range e.Failed {
		errs = append(errs, ke.Err)
	}
	return errs
}

// FailedIndexes returns the positions of the failed keys.
func (e *BatchError[K]) FailedIndexes() []int {
	idx := make([]int, 0, len(e.Failed))
	for _, ke := range e.Failed {
		idx = append(idx, ke.Index)
	}
	return idx
}

type batchErrors[K any] struct {
	total  int
	failed []KeyError[K]
}

func (b *batchErrors[K]) add(idx int, key K, err error) {
	b.failed = append(b.failed, KeyError[K]{Index: idx, Key: key, Err: err})
}

func (b *batchErrors[K]) err() error {
	if len(b.failed) == 0 {
		return nil
	}
	return &BatchError[K]{Total: b.total, Failed: b.failed}
}
