package store

import (
	"context"
	"testing"

	"versioned-state/pkg/versioning"
)

func getInMemoryValueStore() *InMemoryValueStore[string] {
	return NewInMemoryValueStore[string]("test1", func(a, b string) bool {
		return a < b
	})
}

func TestInMemoryValueStore(t *testing.T) {
	RunValueStoreTests(context.Background(), getInMemoryValueStore(), t)
}

func TestInMemoryRangeInKeyOrder(t *testing.T) {
	ctx := context.Background()
	store := getInMemoryValueStore()
	for _, k := range []string{"moon", "cow", "the"} {
		checkErr(store.Write(ctx, k, versioning.RawRecord{Payload: []byte(k)}), t)
	}
	var keys []string
	checkErr(store.Range(func(k string, rec versioning.RawRecord) error {
		keys = append(keys, k)
		return nil
	}), t)
	expected := []string{"cow", "moon", "the"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, keys)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, keys)
		}
	}
	if store.ApproximateNumEntries() != 3 {
		t.Fatalf("expected 3 entries, got %d", store.ApproximateNumEntries())
	}
}
