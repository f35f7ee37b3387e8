package store

import (
	"context"

	"versioned-state/pkg/utils/syncutils"
	"versioned-state/pkg/versioning"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

// PebbleValueStore keeps records in a pebble LSM. Keys are prefixed with the
// store name and a zero byte so several states can share one directory.
type PebbleValueStore[K any] struct {
	db     *pebble.DB
	path   string
	prefix []byte
	name   string
	closed syncutils.AtomicBool
	rb     recordBytes[K]
}

var _ = ValueStore[string](&PebbleValueStore[string]{})

func NewPebbleValueStore[K any](name string, path string, cfg BytesConfig[K]) (*PebbleValueStore[K], error) {
	rb, err := newRecordBytes(cfg)
	if err != nil {
		return nil, err
	}
	prefix := append([]byte(name), 0)
	return &PebbleValueStore[K]{path: path, prefix: prefix, name: name, rb: rb}, nil
}

func (p *PebbleValueStore[K]) Start(_ context.Context) error {
	db, err := pebble.Open(p.path, &pebble.Options{})
	if err != nil {
		return unavailable("pebble", "open", err)
	}
	p.db = db
	log.Info().Str("path", p.path).Str("store", p.name).Msg("opened pebble store")
	return nil
}

func (p *PebbleValueStore[K]) Close(_ context.Context) error {
	if p.db == nil || !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := p.db.Close(); err != nil {
		return unavailable("pebble", "close", err)
	}
	return nil
}

func (p *PebbleValueStore[K]) Name() string {
	return p.name
}

func (p *PebbleValueStore[K]) TableType() TABLE_TYPE {
	return PEBBLE
}

func (p *PebbleValueStore[K]) dbKey(key K) ([]byte, error) {
	kBytes, err := p.rb.encodeKey(key)
	if err != nil {
		return nil, err
	}
	k := make([]byte, 0, len(p.prefix)+len(kBytes))
	k = append(k, p.prefix...)
	return append(k, kBytes...), nil
}

func (p *PebbleValueStore[K]) usable() bool {
	return p.db != nil && !p.closed.Get()
}

func (p *PebbleValueStore[K]) Read(_ context.Context, key K) (versioning.RawRecord, bool, error) {
	if !p.usable() {
		return versioning.RawRecord{}, false, unavailable("pebble", "read", pebble.ErrClosed)
	}
	k, err := p.dbKey(key)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	v, closer, err := p.db.Get(k)
	if err != nil {
		if err == pebble.ErrNotFound {
			return versioning.RawRecord{}, false, nil
		}
		return versioning.RawRecord{}, false, unavailable("pebble", "read", err)
	}
	value := make([]byte, len(v))
	copy(value, v)
	if err := closer.Close(); err != nil {
		return versioning.RawRecord{}, false, unavailable("pebble", "read", err)
	}
	rec, err := p.rb.decodeRecord(value)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	return rec, true, nil
}

func (p *PebbleValueStore[K]) Write(_ context.Context, key K, rec versioning.RawRecord) error {
	if !p.usable() {
		return unavailable("pebble", "write", pebble.ErrClosed)
	}
	k, err := p.dbKey(key)
	if err != nil {
		return err
	}
	value, err := p.rb.encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := p.db.Set(k, value, pebble.Sync); err != nil {
		if err == pebble.ErrReadOnly {
			return rejected("pebble", "write", err)
		}
		return unavailable("pebble", "write", err)
	}
	return nil
}
