package state

import (
	"context"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/env_config"
	"versioned-state/pkg/redis_client"
	"versioned-state/pkg/store"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/constraints"
	"golang.org/x/xerrors"
)

// NewValueStore opens the backend selected by cfg for the state called name
// and puts the local read-through cache in front of it unless
// cfg.LocalCacheSize is 0. Stores holding connections or files implement
// store.Closer.
func NewValueStore[K constraints.Ordered](ctx context.Context, cfg *env_config.Config, name string,
	keySerde commtypes.EncoderG[K],
) (store.ValueStore[K], error) {
	bytesCfg := store.BytesConfig[K]{KeySerde: keySerde, SerdeFormat: cfg.SerdeFormat}
	var st store.ValueStore[K]
	switch cfg.Backend {
	case store.IN_MEM:
		st = store.NewInMemoryValueStore(name, func(a, b K) bool { return a < b })
	case store.MONGODB:
		client, err := store.InitMongoDBClient(ctx, cfg.MongoAddr)
		if err != nil {
			return nil, err
		}
		colName := cfg.MongoCollection
		if colName == "" {
			colName = name
		}
		mongoStore := store.NewMongoDBValueStore(&store.MongoDBConfig[K]{
			KeySerde:       keySerde,
			Client:         client,
			DBName:         cfg.MongoDB,
			CollectionName: colName,
			StateType:      cfg.StateType,
			Retries:        store.DEFAULT_MONGO_RETRIES,
		})
		if err := mongoStore.CreateKeyIndex(ctx); err != nil {
			_ = mongoStore.Close(ctx)
			return nil, err
		}
		st = mongoStore
	case store.REDIS:
		rdbs := redis_client.GetRedisClients(cfg.RedisAddr)
		if err := redis_client.PingAll(ctx, rdbs); err != nil {
			return nil, xerrors.Errorf("redis ping: %v: %w", err, common_errors.ErrStoreUnavailable)
		}
		redisStore, err := store.NewRedisValueStore(name, rdbs, bytesCfg)
		if err != nil {
			return nil, err
		}
		st = redisStore
	case store.MINIO:
		mcs, err := store.NewMinioClients(store.MinioConfig{
			Addrs:           cfg.MinioAddr,
			AccessKey:       cfg.MinioAccessKey,
			SecretAccessKey: cfg.MinioSecretKey,
			Bucket:          cfg.MinioBucket,
		})
		if err != nil {
			return nil, err
		}
		minioStore, err := store.NewMinioValueStore(name, mcs, cfg.MinioBucket, bytesCfg)
		if err != nil {
			return nil, err
		}
		if err := minioStore.CreateBucket(ctx); err != nil {
			return nil, err
		}
		st = minioStore
	case store.BOLT:
		boltStore, err := store.NewBoltValueStore(name, cfg.BoltPath, 3, bytesCfg)
		if err != nil {
			return nil, err
		}
		if err := boltStore.Start(ctx); err != nil {
			return nil, err
		}
		st = boltStore
	case store.PEBBLE:
		pebbleStore, err := store.NewPebbleValueStore(name, cfg.PebblePath, bytesCfg)
		if err != nil {
			return nil, err
		}
		if err := pebbleStore.Start(ctx); err != nil {
			return nil, err
		}
		st = pebbleStore
	default:
		return nil, xerrors.Errorf("%v: %w", cfg.Backend, common_errors.ErrUnknownBackend)
	}
	log.Info().Str("store", name).Str("config", cfg.String()).Msg("opened value store")
	if cfg.LocalCacheSize == 0 {
		return st, nil
	}
	cached, err := store.NewCachingValueStore[K](st, cfg.LocalCacheSize)
	if err != nil {
		_ = CloseStore(ctx, st)
		return nil, err
	}
	return cached, nil
}

// NewFromConfig builds a map state of cfg.StateType on the backend of cfg.
func NewFromConfig[K constraints.Ordered, V any](ctx context.Context, cfg *env_config.Config, name string,
	keySerde commtypes.EncoderG[K], valSerde commtypes.SerdeG[V], opts ...Option[V],
) (*VersionedMapState[K, V], error) {
	st, err := NewValueStore(ctx, cfg, name, keySerde)
	if err != nil {
		return nil, err
	}
	s, err := NewVersionedMapState(st, cfg.StateType, valSerde, opts...)
	if err != nil {
		_ = CloseStore(ctx, st)
		return nil, err
	}
	return s, nil
}

// CloseStore releases the connection or file behind st, if any.
func CloseStore[K any](ctx context.Context, st store.ValueStore[K]) error {
	if c, ok := st.(store.Closer); ok {
		return c.Close(ctx)
	}
	return nil
}
