package versioning

import "4d63.com/optional"

// RawRecord is the persisted layout of one key. Payload and Prior hold
// serialized values; a nil slice means the field is absent, an empty one is
// a present but empty value.
type RawRecord struct {
	Payload []byte `json:"p" msg:"p"`
	Prior   []byte `json:"pp" msg:"pp"`
	TxID    uint64 `json:"t,omitempty" msg:"t,omitempty"`
	HasTxID bool   `json:"ht,omitempty" msg:"ht,omitempty"`
}

// Record is one decoded snapshot of a key. Merges never modify a Record,
// they return a new one.
type Record[V any] struct {
	Payload V
	TxID    optional.Optional[uint64]
	Prior   optional.Optional[V]
}

func NewRecord[V any](payload V, txid uint64) Record[V] {
	return Record[V]{
		Payload: payload,
		TxID:    optional.Of(txid),
		Prior:   optional.Empty[V](),
	}
}

func NewOpaqueRecord[V any](payload V, txid uint64, prior optional.Optional[V]) Record[V] {
	return Record[V]{
		Payload: payload,
		TxID:    optional.Of(txid),
		Prior:   prior,
	}
}

func NewPlainRecord[V any](payload V) Record[V] {
	return Record[V]{
		Payload: payload,
		TxID:    optional.Empty[uint64](),
		Prior:   optional.Empty[V](),
	}
}

func (r Record[V]) LastTxID() (uint64, bool) {
	return r.TxID.Get()
}

func (r Record[V]) PriorPayload() (V, bool) {
	return r.Prior.Get()
}

// Clone returns a copy that shares no memory with r.
func (r RawRecord) Clone() RawRecord {
	c := r
	if r.Payload != nil {
		c.Payload = append([]byte{}, r.Payload...)
	}
	if r.Prior != nil {
		c.Prior = append([]byte{}, r.Prior...)
	}
	return c
}
