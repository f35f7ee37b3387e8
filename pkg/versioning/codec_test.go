package versioning

import (
	"errors"
	"testing"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"

	"4d63.com/optional"
	"github.com/google/go-cmp/cmp"
)

type wordCount struct {
	Word  string
	Count int64
}

func testCodec() Codec[wordCount] {
	return NewCodec[wordCount](commtypes.JSONSerdeG[wordCount]{})
}

func checkRoundTrip(t *testing.T, mode StateType, rec Record[wordCount]) {
	t.Helper()
	c := testCodec()
	raw, err := c.Encode(mode, rec)
	if err != nil {
		t.Fatalf("encode %v: %v", mode, err)
	}
	for _, format := range []commtypes.SerdeFormat{commtypes.JSON, commtypes.MSGP} {
		serde, err := GetRawRecordSerdeG(format)
		if err != nil {
			t.Fatal(err)
		}
		bts, err := serde.Encode(raw)
		if err != nil {
			t.Fatalf("envelope encode %v: %v", format, err)
		}
		rawBack, err := serde.Decode(bts)
		if err != nil {
			t.Fatalf("envelope decode %v: %v", format, err)
		}
		if diff := cmp.Diff(raw, rawBack); diff != "" {
			t.Fatalf("envelope %v mismatch (-want +got):\n%s", format, diff)
		}
		got, err := c.Decode(mode, rawBack)
		if err != nil {
			t.Fatalf("decode %v: %v", mode, err)
		}
		if !sameRecord(rec, got) {
			t.Fatalf("record %v mismatch: want %+v, got %+v", mode, rec, got)
		}
	}
}

func sameRecord(a, b Record[wordCount]) bool {
	if a.Payload != b.Payload {
		return false
	}
	at, aok := a.LastTxID()
	bt, bok := b.LastTxID()
	if aok != bok || at != bt {
		return false
	}
	ap, aok := a.PriorPayload()
	bp, bok := b.PriorPayload()
	return aok == bok && ap == bp
}

func TestRoundTripTransactional(t *testing.T) {
	checkRoundTrip(t, Transactional, NewRecord(wordCount{Word: "moon", Count: 3}, 1))
	checkRoundTrip(t, Transactional, NewRecord(wordCount{}, 1<<40))
}

func TestRoundTripOpaque(t *testing.T) {
	checkRoundTrip(t, Opaque, NewOpaqueRecord(wordCount{Word: "cow", Count: 15}, 2, optional.Empty[wordCount]()))
	checkRoundTrip(t, Opaque, NewOpaqueRecord(wordCount{Word: "cow", Count: 15}, 2,
		optional.Of(wordCount{Word: "cow", Count: 10})))
}

func TestRoundTripNonTransactional(t *testing.T) {
	checkRoundTrip(t, NonTransactional, NewPlainRecord(wordCount{Word: "the", Count: 42}))
}

func TestEmptyPayloadIsPresent(t *testing.T) {
	c := NewCodec[string](commtypes.StringSerdeG{})
	raw, err := c.EncodeOpaque(NewOpaqueRecord("", 4, optional.Of("")))
	if err != nil {
		t.Fatal(err)
	}
	bts, err := RawRecordMsgpSerdeG{}.Encode(raw)
	if err != nil {
		t.Fatal(err)
	}
	back, err := RawRecordMsgpSerdeG{}.Decode(bts)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := c.DecodeOpaque(back)
	if err != nil {
		t.Fatalf("empty payload should decode: %v", err)
	}
	if _, ok := rec.PriorPayload(); !ok {
		t.Fatal("empty prior should stay present")
	}
}

func TestDecodeMalformed(t *testing.T) {
	c := testCodec()
	payload := []byte(`{"Word":"a","Count":1}`)
	cases := []struct {
		name string
		mode StateType
		raw  RawRecord
	}{
		{"txid without payload", Transactional, RawRecord{TxID: 3, HasTxID: true}},
		{"opaque txid without payload", Opaque, RawRecord{TxID: 3, HasTxID: true}},
		{"missing txid", Transactional, RawRecord{Payload: payload}},
		{"opaque missing txid", Opaque, RawRecord{Payload: payload}},
		{"prior without txid", Opaque, RawRecord{Payload: payload, Prior: payload}},
		{"prior in transactional", Transactional, RawRecord{Payload: payload, Prior: payload, TxID: 1, HasTxID: true}},
		{"bad payload bytes", Opaque, RawRecord{Payload: []byte("{"), TxID: 1, HasTxID: true}},
		{"non-transactional without payload", NonTransactional, RawRecord{}},
	}
	for _, tc := range cases {
		_, err := c.Decode(tc.mode, tc.raw)
		if !errors.Is(err, common_errors.ErrDecode) {
			t.Errorf("%s: expected ErrDecode, got %v", tc.name, err)
		}
	}
}

func TestEncodeVersionedRequiresTxID(t *testing.T) {
	c := testCodec()
	if _, err := c.EncodeTransactional(NewPlainRecord(wordCount{})); err == nil {
		t.Error("expected error encoding transactional record without txid")
	}
	if _, err := c.EncodeOpaque(NewPlainRecord(wordCount{})); err == nil {
		t.Error("expected error encoding opaque record without txid")
	}
}

func TestParseStateType(t *testing.T) {
	for _, m := range []StateType{NonTransactional, Transactional, Opaque} {
		got, err := ParseStateType(m.String())
		if err != nil || got != m {
			t.Errorf("parse %q: got %v err %v", m.String(), got, err)
		}
	}
	if _, err := ParseStateType("exactly-once"); !errors.Is(err, common_errors.ErrUnknownStateType) {
		t.Errorf("expected ErrUnknownStateType, got %v", err)
	}
}
