package store

import (
	"context"

	"versioned-state/pkg/versioning"
)

// faultStore wraps a ValueStore, counts calls and fails them on demand.
type faultStore struct {
	ValueStore[string]
	reads    int
	writes   int
	readErr  error
	writeErr error
}

func (f *faultStore) Read(ctx context.Context, key string) (versioning.RawRecord, bool, error) {
	f.reads++
	if f.readErr != nil {
		return versioning.RawRecord{}, false, f.readErr
	}
	return f.ValueStore.Read(ctx, key)
}

func (f *faultStore) Write(ctx context.Context, key string, rec versioning.RawRecord) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.ValueStore.Write(ctx, key, rec)
}
