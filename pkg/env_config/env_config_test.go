package env_config

import (
	"errors"
	"testing"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/store"
	"versioned-state/pkg/versioning"

	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookup(nil))
	require.NoError(t, err)
	require.Equal(t, store.IN_MEM, cfg.Backend)
	require.Equal(t, versioning.Opaque, cfg.StateType)
	require.Equal(t, commtypes.MSGP, cfg.SerdeFormat)
	require.Equal(t, DEFAULT_LOCAL_CACHE_SIZE, cfg.LocalCacheSize)
	require.Equal(t, "$GLOBAL$", cfg.GlobalKey)
	require.Equal(t, DEFAULT_MONGO_DB, cfg.MongoDB)
}

func TestParsesEverything(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"STATE_BACKEND":    "redis",
		"STATE_TYPE":       "transactional",
		"SERDE_FORMAT":     "json",
		"LOCAL_CACHE_SIZE": "0",
		"GLOBAL_KEY":       "total",
		"REDIS_ADDR":       "10.0.0.1:6379, 10.0.0.2:6379",
	}))
	require.NoError(t, err)
	require.Equal(t, store.REDIS, cfg.Backend)
	require.Equal(t, versioning.Transactional, cfg.StateType)
	require.Equal(t, commtypes.JSON, cfg.SerdeFormat)
	require.Equal(t, 0, cfg.LocalCacheSize)
	require.Equal(t, "total", cfg.GlobalKey)
	require.Equal(t, []string{"10.0.0.1:6379", "10.0.0.2:6379"}, cfg.RedisAddr)
}

func TestRejectsBadValues(t *testing.T) {
	_, err := FromLookup(lookup(map[string]string{"STATE_BACKEND": "cassandra"}))
	require.True(t, errors.Is(err, common_errors.ErrUnknownBackend))

	_, err = FromLookup(lookup(map[string]string{"STATE_TYPE": "exactly-once"}))
	require.True(t, errors.Is(err, common_errors.ErrUnknownStateType))

	_, err = FromLookup(lookup(map[string]string{"SERDE_FORMAT": "avro"}))
	require.True(t, errors.Is(err, common_errors.ErrUnrecognizedSerdeFormat))

	_, err = FromLookup(lookup(map[string]string{"LOCAL_CACHE_SIZE": "-1"}))
	require.Error(t, err)
}

func TestBackendNeedsAddress(t *testing.T) {
	for _, backend := range []string{"mongodb", "redis", "minio", "bolt", "pebble"} {
		_, err := FromLookup(lookup(map[string]string{"STATE_BACKEND": backend}))
		require.Error(t, err, backend)
	}
	_, err := FromLookup(lookup(map[string]string{"STATE_BACKEND": "bolt", "BOLT_PATH": "/tmp/x.db"}))
	require.NoError(t, err)
}
