package store

import (
	"context"

	"versioned-state/pkg/versioning"
)

// ValueStore persists one RawRecord per key. Read reports absence with a
// false flag rather than an error. Connectivity failures match
// common_errors.ErrStoreUnavailable, refused writes match
// common_errors.ErrWriteRejected.
//
// Implementations serialize concurrent access to the same record themselves;
// callers add no locking.
type ValueStore[K any] interface {
	StateStore
	Read(ctx context.Context, key K) (versioning.RawRecord, bool, error)
	Write(ctx context.Context, key K, rec versioning.RawRecord) error
	TableType() TABLE_TYPE
}

// Closer is implemented by stores owning a connection or file handle.
type Closer interface {
	Close(ctx context.Context) error
}
