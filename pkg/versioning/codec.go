package versioning

import (
	"bytes"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"

	"4d63.com/optional"
	"golang.org/x/xerrors"
)

// EqualFunc compares two payloads. Opaque merges use it to recognise which
// stored generation a replayed value was derived from.
type EqualFunc[V any] func(a, b V) bool

// Codec translates between RawRecord and Record for each StateType.
type Codec[V any] struct {
	valSerde commtypes.SerdeG[V]
}

func NewCodec[V any](valSerde commtypes.SerdeG[V]) Codec[V] {
	return Codec[V]{valSerde: valSerde}
}

func (c Codec[V]) Decode(mode StateType, raw RawRecord) (Record[V], error) {
	switch mode {
	case NonTransactional:
		return c.DecodeNonTransactional(raw)
	case Transactional:
		return c.DecodeTransactional(raw)
	case Opaque:
		return c.DecodeOpaque(raw)
	default:
		return Record[V]{}, xerrors.Errorf("decode %v: %w", mode, common_errors.ErrUnknownStateType)
	}
}

func (c Codec[V]) Encode(mode StateType, rec Record[V]) (RawRecord, error) {
	switch mode {
	case NonTransactional:
		return c.EncodeNonTransactional(rec)
	case Transactional:
		return c.EncodeTransactional(rec)
	case Opaque:
		return c.EncodeOpaque(rec)
	default:
		return RawRecord{}, xerrors.Errorf("encode %v: %w", mode, common_errors.ErrUnknownStateType)
	}
}

func (c Codec[V]) DecodeNonTransactional(raw RawRecord) (Record[V], error) {
	if raw.Payload == nil {
		return Record[V]{}, xerrors.Errorf("record has no payload: %w", common_errors.ErrDecode)
	}
	v, err := c.decodePayload(raw.Payload)
	if err != nil {
		return Record[V]{}, err
	}
	return NewPlainRecord(v), nil
}

func (c Codec[V]) DecodeTransactional(raw RawRecord) (Record[V], error) {
	if err := checkVersioned(raw); err != nil {
		return Record[V]{}, err
	}
	if raw.Prior != nil {
		return Record[V]{}, xerrors.Errorf("transactional record carries a prior payload: %w", common_errors.ErrDecode)
	}
	v, err := c.decodePayload(raw.Payload)
	if err != nil {
		return Record[V]{}, err
	}
	return NewRecord(v, raw.TxID), nil
}

func (c Codec[V]) DecodeOpaque(raw RawRecord) (Record[V], error) {
	if err := checkVersioned(raw); err != nil {
		return Record[V]{}, err
	}
	v, err := c.decodePayload(raw.Payload)
	if err != nil {
		return Record[V]{}, err
	}
	prior := optional.Empty[V]()
	if raw.Prior != nil {
		p, err := c.decodePayload(raw.Prior)
		if err != nil {
			return Record[V]{}, err
		}
		prior = optional.Of(p)
	}
	return NewOpaqueRecord(v, raw.TxID, prior), nil
}

func checkVersioned(raw RawRecord) error {
	if raw.Payload == nil {
		if raw.HasTxID {
			return xerrors.Errorf("txid %d present without payload: %w", raw.TxID, common_errors.ErrDecode)
		}
		return xerrors.Errorf("record has no payload: %w", common_errors.ErrDecode)
	}
	if !raw.HasTxID {
		if raw.Prior != nil {
			return xerrors.Errorf("prior payload present without txid: %w", common_errors.ErrDecode)
		}
		return xerrors.Errorf("record has no txid: %w", common_errors.ErrDecode)
	}
	return nil
}

func (c Codec[V]) decodePayload(b []byte) (V, error) {
	v, err := c.valSerde.Decode(b)
	if err != nil {
		return v, xerrors.Errorf("payload: %v: %w", err, common_errors.ErrDecode)
	}
	return v, nil
}

func (c Codec[V]) EncodeNonTransactional(rec Record[V]) (RawRecord, error) {
	p, err := c.encodePayload(rec.Payload)
	if err != nil {
		return RawRecord{}, err
	}
	return RawRecord{Payload: p}, nil
}

func (c Codec[V]) EncodeTransactional(rec Record[V]) (RawRecord, error) {
	txid, ok := rec.LastTxID()
	if !ok {
		return RawRecord{}, xerrors.New("transactional record without txid")
	}
	p, err := c.encodePayload(rec.Payload)
	if err != nil {
		return RawRecord{}, err
	}
	return RawRecord{Payload: p, TxID: txid, HasTxID: true}, nil
}

func (c Codec[V]) EncodeOpaque(rec Record[V]) (RawRecord, error) {
	txid, ok := rec.LastTxID()
	if !ok {
		return RawRecord{}, xerrors.New("opaque record without txid")
	}
	p, err := c.encodePayload(rec.Payload)
	if err != nil {
		return RawRecord{}, err
	}
	raw := RawRecord{Payload: p, TxID: txid, HasTxID: true}
	if prior, ok := rec.PriorPayload(); ok {
		raw.Prior, err = c.encodePayload(prior)
		if err != nil {
			return RawRecord{}, err
		}
	}
	return raw, nil
}

func (c Codec[V]) encodePayload(v V) ([]byte, error) {
	b, err := c.valSerde.Encode(v)
	if err != nil {
		return nil, xerrors.Errorf("encode payload: %w", err)
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// Equal compares payloads by their serialized form. The value serde must be
// deterministic for this to be meaningful.
func (c Codec[V]) Equal(a, b V) bool {
	ab, err := c.valSerde.Encode(a)
	if err != nil {
		return false
	}
	bb, err := c.valSerde.Encode(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
