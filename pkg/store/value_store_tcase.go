package store

import (
	"bytes"
	"context"
	"testing"

	"versioned-state/pkg/versioning"
)

func checkErr(err error, t testing.TB) {
	if err != nil {
		t.Fatal(err.Error())
	}
}

func checkRecordEqual(t testing.TB, expected, got versioning.RawRecord) {
	t.Helper()
	if !bytes.Equal(expected.Payload, got.Payload) || (expected.Payload == nil) != (got.Payload == nil) {
		t.Fatalf("payload: expected %v, got %v", expected.Payload, got.Payload)
	}
	if !bytes.Equal(expected.Prior, got.Prior) || (expected.Prior == nil) != (got.Prior == nil) {
		t.Fatalf("prior: expected %v, got %v", expected.Prior, got.Prior)
	}
	if expected.HasTxID != got.HasTxID || expected.TxID != got.TxID {
		t.Fatalf("txid: expected (%d, %v), got (%d, %v)", expected.TxID, expected.HasTxID, got.TxID, got.HasTxID)
	}
}

func ShouldReportAbsentKey(ctx context.Context, store ValueStore[string], t testing.TB) {
	_, ok, err := store.Read(ctx, "never-written")
	checkErr(err, t)
	if ok {
		t.Fatal("never written key should be absent")
	}
}

func ShouldReadWhatWasWritten(ctx context.Context, store ValueStore[string], t testing.TB) {
	recs := map[string]versioning.RawRecord{
		"plain":  {Payload: []byte("ten")},
		"txn":    {Payload: []byte("fifteen"), TxID: 2, HasTxID: true},
		"opaque": {Payload: []byte("fifteen"), Prior: []byte("ten"), TxID: 2, HasTxID: true},
		"empty":  {Payload: []byte{}, Prior: []byte{}, TxID: 1, HasTxID: true},
	}
	for k, rec := range recs {
		checkErr(store.Write(ctx, k, rec), t)
	}
	for k, expected := range recs {
		got, ok, err := store.Read(ctx, k)
		checkErr(err, t)
		if !ok {
			t.Fatalf("%s should be present", k)
		}
		checkRecordEqual(t, expected, got)
	}
}

func ShouldOverwriteAndDropFields(ctx context.Context, store ValueStore[string], t testing.TB) {
	checkErr(store.Write(ctx, "a", versioning.RawRecord{
		Payload: []byte("2"), Prior: []byte("1"), TxID: 5, HasTxID: true,
	}), t)
	next := versioning.RawRecord{Payload: []byte("3")}
	checkErr(store.Write(ctx, "a", next), t)
	got, ok, err := store.Read(ctx, "a")
	checkErr(err, t)
	if !ok {
		t.Fatal("a should be present")
	}
	checkRecordEqual(t, next, got)
}

func ShouldNotAliasCallerBuffers(ctx context.Context, store ValueStore[string], t testing.TB) {
	payload := []byte("abc")
	checkErr(store.Write(ctx, "alias", versioning.RawRecord{Payload: payload, TxID: 1, HasTxID: true}), t)
	payload[0] = 'z'
	got, _, err := store.Read(ctx, "alias")
	checkErr(err, t)
	if string(got.Payload) != "abc" {
		t.Fatalf("store kept a reference to the caller's buffer: %s", got.Payload)
	}
	got.Payload[1] = 'z'
	again, _, err := store.Read(ctx, "alias")
	checkErr(err, t)
	if string(again.Payload) != "abc" {
		t.Fatalf("store returned its internal buffer: %s", again.Payload)
	}
}

// RunValueStoreTests exercises the ValueStore contract on a fresh store.
func RunValueStoreTests(ctx context.Context, store ValueStore[string], t *testing.T) {
	t.Run("AbsentKey", func(t *testing.T) { ShouldReportAbsentKey(ctx, store, t) })
	t.Run("ReadWhatWasWritten", func(t *testing.T) { ShouldReadWhatWasWritten(ctx, store, t) })
	t.Run("OverwriteAndDropFields", func(t *testing.T) { ShouldOverwriteAndDropFields(ctx, store, t) })
	t.Run("NotAliasCallerBuffers", func(t *testing.T) { ShouldNotAliasCallerBuffers(ctx, store, t) })
}
