package versioning

import (
	"versioned-state/pkg/common_errors"

	"4d63.com/optional"
	"golang.org/x/xerrors"
)

// Merger computes the next Record of a key from the stored Record, the
// incoming value and the batch txid. The algorithm is picked by the mode tag.
type Merger[V any] struct {
	mode StateType
	eq   EqualFunc[V]
}

func NewMerger[V any](mode StateType, eq EqualFunc[V]) (Merger[V], error) {
	if mode > Opaque {
		return Merger[V]{}, xerrors.Errorf("merger for %d: %w", mode, common_errors.ErrUnknownStateType)
	}
	return Merger[V]{mode: mode, eq: eq}, nil
}

func (m Merger[V]) Mode() StateType {
	return m.mode
}

func (m Merger[V]) Merge(stored optional.Optional[Record[V]], incoming V, txid uint64) (Record[V], error) {
	switch m.mode {
	case NonTransactional:
		return MergeNonTransactional(stored, incoming, txid), nil
	case Transactional:
		return MergeTransactional(stored, incoming, txid)
	case Opaque:
		return MergeOpaque(stored, incoming, txid, m.eq)
	default:
		return Record[V]{}, common_errors.ErrUnknownStateType
	}
}

// MergeNonTransactional overwrites unconditionally and keeps no metadata.
func MergeNonTransactional[V any](_ optional.Optional[Record[V]], incoming V, _ uint64) Record[V] {
	return NewPlainRecord(incoming)
}

// MergeTransactional applies incoming at most once per txid. A replay of the
// committed txid returns the stored record untouched; incoming is discarded
// without checking what it was derived from.
func MergeTransactional[V any](stored optional.Optional[Record[V]], incoming V, txid uint64) (Record[V], error) {
	s, ok := stored.Get()
	if !ok {
		return NewRecord(incoming, txid), nil
	}
	last, _ := s.LastTxID()
	switch {
	case last == txid:
		return s, nil
	case last < txid:
		return NewRecord(incoming, txid), nil
	default:
		return Record[V]{}, &StaleBatchError{StoredTxID: last, TxID: txid}
	}
}

// MergeOpaque keeps one prior generation so that a batch retried after a
// partially failed write can be absorbed whether incoming was computed from
// the prior or already equals the committed payload.
func MergeOpaque[V any](stored optional.Optional[Record[V]], incoming V, txid uint64, eq EqualFunc[V]) (Record[V], error) {
	s, ok := stored.Get()
	if !ok {
		return NewOpaqueRecord(incoming, txid, optional.Empty[V]()), nil
	}
	last, _ := s.LastTxID()
	switch {
	case last == txid:
		if prior, ok := s.PriorPayload(); ok && eq(incoming, prior) {
			return NewOpaqueRecord(s.Payload, txid, s.Prior), nil
		}
		if eq(incoming, s.Payload) {
			return s, nil
		}
		return Record[V]{}, &InconsistentReplayError{TxID: txid}
	case last < txid:
		return NewOpaqueRecord(incoming, txid, optional.Of(s.Payload)), nil
	default:
		return Record[V]{}, &StaleBatchError{StoredTxID: last, TxID: txid}
	}
}
