package state

import (
	"context"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/store"
	"versioned-state/pkg/versioning"

	"4d63.com/optional"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// VersionedMapState is the batch facade the engine talks to: every key of a
// batch is read, merged under the configured StateType and written back.
// It holds no mutable state; concurrent calls on disjoint keys are fine,
// and writers of the same key must be serialized by the caller.
type VersionedMapState[K, V any] struct {
	store  store.ValueStore[K]
	codec  versioning.Codec[V]
	merger versioning.Merger[V]
	mode   versioning.StateType
}

type config[V any] struct {
	eq versioning.EqualFunc[V]
}

type Option[V any] func(*config[V])

// WithEqual replaces the payload equality used to recognise replays in
// opaque mode. The default compares serialized payloads.
func WithEqual[V any](eq versioning.EqualFunc[V]) Option[V] {
	return func(c *config[V]) {
		c.eq = eq
	}
}

func NewVersionedMapState[K, V any](st store.ValueStore[K], mode versioning.StateType,
	valSerde commtypes.SerdeG[V], opts ...Option[V],
) (*VersionedMapState[K, V], error) {
	codec := versioning.NewCodec(valSerde)
	cfg := config[V]{eq: codec.Equal}
	for _, opt := range opts {
		opt(&cfg)
	}
	merger, err := versioning.NewMerger(mode, cfg.eq)
	if err != nil {
		return nil, err
	}
	return &VersionedMapState[K, V]{
		store:  st,
		codec:  codec,
		merger: merger,
		mode:   mode,
	}, nil
}

func NewNonTransactional[K, V any](st store.ValueStore[K], valSerde commtypes.SerdeG[V], opts ...Option[V]) (*VersionedMapState[K, V], error) {
	return NewVersionedMapState(st, versioning.NonTransactional, valSerde, opts...)
}

func NewTransactional[K, V any](st store.ValueStore[K], valSerde commtypes.SerdeG[V], opts ...Option[V]) (*VersionedMapState[K, V], error) {
	return NewVersionedMapState(st, versioning.Transactional, valSerde, opts...)
}

func NewOpaque[K, V any](st store.ValueStore[K], valSerde commtypes.SerdeG[V], opts ...Option[V]) (*VersionedMapState[K, V], error) {
	return NewVersionedMapState(st, versioning.Opaque, valSerde, opts...)
}

func (s *VersionedMapState[K, V]) Mode() versioning.StateType {
	return s.mode
}

func (s *VersionedMapState[K, V]) Store() store.ValueStore[K] {
	return s.store
}

func (s *VersionedMapState[K, V]) load(ctx context.Context, key K) (optional.Optional[versioning.Record[V]], error) {
	raw, ok, err := s.store.Read(ctx, key)
	if err != nil {
		return optional.Empty[versioning.Record[V]](), err
	}
	if !ok {
		return optional.Empty[versioning.Record[V]](), nil
	}
	rec, err := s.codec.Decode(s.mode, raw)
	if err != nil {
		return optional.Empty[versioning.Record[V]](), xerrors.Errorf("%s: %w", s.store.Name(), err)
	}
	return optional.Of(rec), nil
}

// BatchGet returns the committed payload of every key, in the order of keys.
// Never written keys are empty. Failed keys are reported in a *BatchError
// while the others keep their values.
func (s *VersionedMapState[K, V]) BatchGet(ctx context.Context, keys []K) ([]optional.Optional[V], error) {
	vals := make([]optional.Optional[V], len(keys))
	errs := batchErrors[K]{total: len(keys)}
	for i, key := range keys {
		rec, err := s.load(ctx, key)
		if err != nil {
			errs.add(i, key, err)
			continue
		}
		if r, ok := rec.Get(); ok {
			vals[i] = optional.Of(r.Payload)
		}
	}
	return vals, errs.err()
}

// BatchPut merges vals[i] into keys[i] at txid. Every key is attempted; the
// returned *BatchError names the keys that failed and why.
func (s *VersionedMapState[K, V]) BatchPut(ctx context.Context, keys []K, vals []V, txid uint64) error {
	if len(keys) != len(vals) {
		return xerrors.Errorf("%d keys, %d values: %w", len(keys), len(vals), common_errors.ErrBatchSizeMismatch)
	}
	errs := batchErrors[K]{total: len(keys)}
	for i, key := range keys {
		if _, err := s.put(ctx, key, vals[i], txid); err != nil {
			errs.add(i, key, err)
		}
	}
	return errs.err()
}

// ValueUpdater derives the new value of a key from the value it had before
// the batch. The old value is empty for a key without one.
type ValueUpdater[V any] func(old optional.Optional[V]) V

// BatchUpdate is a read-modify-write batch. The updater sees the value the key
// had before txid, so a retried batch computes the same value as the first
// attempt and is absorbed by the merge. It returns the committed payload of
// every key that succeeded.
func (s *VersionedMapState[K, V]) BatchUpdate(ctx context.Context, keys []K, updaters []ValueUpdater[V], txid uint64) ([]V, error) {
	if len(keys) != len(updaters) {
		return nil, xerrors.Errorf("%d keys, %d updaters: %w", len(keys), len(updaters), common_errors.ErrBatchSizeMismatch)
	}
	out := make([]V, len(keys))
	errs := batchErrors[K]{total: len(keys)}
	for i, key := range keys {
		stored, err := s.load(ctx, key)
		if err != nil {
			errs.add(i, key, err)
			continue
		}
		incoming := updaters[i](s.preBatchValue(stored, txid))
		rec, err := s.commit(ctx, key, stored, incoming, txid)
		if err != nil {
			errs.add(i, key, err)
			continue
		}
		out[i] = rec.Payload
	}
	return out, errs.err()
}

// preBatchValue is the payload as of before txid. Only opaque records keep it
// once txid is committed; otherwise the stored payload is the best there is.
func (s *VersionedMapState[K, V]) preBatchValue(stored optional.Optional[versioning.Record[V]], txid uint64) optional.Optional[V] {
	r, ok := stored.Get()
	if !ok {
		return optional.Empty[V]()
	}
	if last, ok := r.LastTxID(); ok && last == txid && s.mode == versioning.Opaque {
		return r.Prior
	}
	return optional.Of(r.Payload)
}

func (s *VersionedMapState[K, V]) put(ctx context.Context, key K, incoming V, txid uint64) (versioning.Record[V], error) {
	stored, err := s.load(ctx, key)
	if err != nil {
		return versioning.Record[V]{}, err
	}
	return s.commit(ctx, key, stored, incoming, txid)
}

func (s *VersionedMapState[K, V]) commit(ctx context.Context, key K, stored optional.Optional[versioning.Record[V]],
	incoming V, txid uint64,
) (versioning.Record[V], error) {
	next, err := s.merger.Merge(stored, incoming, txid)
	if err != nil {
		s.logMergeErr(key, txid, err)
		return versioning.Record[V]{}, err
	}
	if r, ok := stored.Get(); ok {
		if last, ok := r.LastTxID(); ok && last == txid {
			log.Debug().Str("store", s.store.Name()).Interface("key", key).
				Uint64("txid", txid).Msg("replayed batch absorbed")
		}
	}
	raw, err := s.codec.Encode(s.mode, next)
	if err != nil {
		return versioning.Record[V]{}, err
	}
	if err := s.store.Write(ctx, key, raw); err != nil {
		return versioning.Record[V]{}, err
	}
	return next, nil
}

func (s *VersionedMapState[K, V]) logMergeErr(key K, txid uint64, err error) {
	var stale *versioning.StaleBatchError
	if xerrors.As(err, &stale) {
		log.Warn().Str("store", s.store.Name()).Interface("key", key).
			Uint64("txid", txid).Uint64("stored_txid", stale.StoredTxID).Msg("stale batch rejected")
		return
	}
	if common_errors.IsInconsistentReplayError(err) {
		log.Warn().Str("store", s.store.Name()).Interface("key", key).
			Uint64("txid", txid).Msg("replayed value matches neither stored generation")
	}
}
