package store

import (
	"context"
	"errors"

	"versioned-state/pkg/hashfuncs"
	"versioned-state/pkg/versioning"

	"github.com/go-redis/redis/v9"
)

// RedisValueStore shards records over several redis instances by the hash of
// the encoded key. Keys are namespaced with the store name.
type RedisValueStore[K any] struct {
	rdb_arr []*redis.Client
	name    string
	rb      recordBytes[K]
}

var _ = ValueStore[string](&RedisValueStore[string]{})

func NewRedisValueStore[K any](name string, rdb_arr []*redis.Client, cfg BytesConfig[K]) (*RedisValueStore[K], error) {
	rb, err := newRecordBytes(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisValueStore[K]{rdb_arr: rdb_arr, name: name, rb: rb}, nil
}

func (s *RedisValueStore[K]) Name() string {
	return s.name
}

func (s *RedisValueStore[K]) TableType() TABLE_TYPE {
	return REDIS
}

func (s *RedisValueStore[K]) redisKey(key K) (string, *redis.Client, error) {
	kBytes, err := s.rb.encodeKey(key)
	if err != nil {
		return "", nil, err
	}
	idx := hashfuncs.ShardOf(kBytes, len(s.rdb_arr))
	return s.name + ":" + string(kBytes), s.rdb_arr[idx], nil
}

func (s *RedisValueStore[K]) Read(ctx context.Context, key K) (versioning.RawRecord, bool, error) {
	rkey, rdb, err := s.redisKey(key)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	b, err := rdb.Get(ctx, rkey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return versioning.RawRecord{}, false, nil
		}
		return versioning.RawRecord{}, false, classifyRedisErr("read", err)
	}
	rec, err := s.rb.decodeRecord(b)
	if err != nil {
		return versioning.RawRecord{}, false, err
	}
	return rec, true, nil
}

func (s *RedisValueStore[K]) Write(ctx context.Context, key K, rec versioning.RawRecord) error {
	rkey, rdb, err := s.redisKey(key)
	if err != nil {
		return err
	}
	b, err := s.rb.encodeRecord(rec)
	if err != nil {
		return err
	}
	return classifyRedisErr("write", rdb.Set(ctx, rkey, b, 0).Err())
}

func (s *RedisValueStore[K]) Close(ctx context.Context) error {
	var firstErr error
	for _, rdb := range s.rdb_arr {
		if err := rdb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func classifyRedisErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		// the server answered: OOM, READONLY replica, wrong type
		return rejected("redis", op, err)
	}
	// everything else is the connection: dial, timeout, pool closed
	return unavailable("redis", op, err)
}
