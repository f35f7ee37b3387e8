package store

import (
	"context"
	"errors"
	"time"

	"versioned-state/pkg/versioning"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const fileMode = 0600

// BoltValueStore keeps the records of one state in a bolt bucket named after
// the store.
type BoltValueStore[K any] struct {
	db         *bolt.DB
	path       string
	bucket     []byte
	numRetries uint8
	rb         recordBytes[K]
}

var _ = ValueStore[string](&BoltValueStore[string]{})

func NewBoltValueStore[K any](name string, path string, numRetries uint8, cfg BytesConfig[K]) (*BoltValueStore[K], error) {
	rb, err := newRecordBytes(cfg)
	if err != nil {
		return nil, err
	}
	if numRetries == 0 {
		numRetries = 1
	}
	return &BoltValueStore[K]{path: path, bucket: []byte(name), numRetries: numRetries, rb: rb}, nil
}

// Start opens the bolt file, creating it if it does not exist yet.
func (b *BoltValueStore[K]) Start(_ context.Context) error {
	db, err := bolt.Open(b.path, fileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return unavailable("bolt", "open", err)
	}
	b.db = db
	log.Info().Str("path", b.path).Str("bucket", string(b.bucket)).Msg("opened bolt store")
	return nil
}

func (b *BoltValueStore[K]) Close(_ context.Context) error {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return unavailable("bolt", "close", err)
		}
	}
	return nil
}

func (b *BoltValueStore[K]) Name() string {
	return string(b.bucket)
}

func (b *BoltValueStore[K]) TableType() TABLE_TYPE {
	return BOLT
}

func (b *BoltValueStore[K]) Read(_ context.Context, key K) (versioning.RawRecord, bool, error) {
	if b.db == nil {
		return versioning.RawRecord{}, false, unavailable("bolt", "read", bolt.ErrDatabaseNotOpen)
	}
	kBytes, err := b.rb.encodeKey(key)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	var value []byte
	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		v := bucket.Get(kBytes)
		if v == nil {
			return nil
		}
		// v is only valid for the life of the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return versioning.RawRecord{}, false, classifyBoltErr("read", err)
	}
	if value == nil {
		return versioning.RawRecord{}, false, nil
	}
	rec, err := b.rb.decodeRecord(value)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	return rec, true, nil
}

func (b *BoltValueStore[K]) Write(_ context.Context, key K, rec versioning.RawRecord) (err error) {
	if b.db == nil {
		return unavailable("bolt", "write", bolt.ErrDatabaseNotOpen)
	}
	kBytes, err := b.rb.encodeKey(key)
	if err != nil {
		return err
	}
	value, err := b.rb.encodeRecord(rec)
	if err != nil {
		return err
	}
	for c := uint8(0); c < b.numRetries; c++ {
		if err = b.db.Update(func(tx *bolt.Tx) error {
			bucket, err := tx.CreateBucketIfNotExists(b.bucket)
			if err != nil {
				return err
			}
			return bucket.Put(kBytes, value)
		}); err == nil {
			break
		}
		if isBoltRejection(err) {
			break
		}
	}
	return classifyBoltErr("write", err)
}

func isBoltRejection(err error) bool {
	return errors.Is(err, bolt.ErrKeyRequired) || errors.Is(err, bolt.ErrKeyTooLarge) ||
		errors.Is(err, bolt.ErrValueTooLarge) || errors.Is(err, bolt.ErrDatabaseReadOnly) ||
		errors.Is(err, bolt.ErrTxNotWritable) || errors.Is(err, bolt.ErrBucketNameRequired)
}

func classifyBoltErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isBoltRejection(err) {
		return rejected("bolt", op, err)
	}
	return unavailable("bolt", op, err)
}
