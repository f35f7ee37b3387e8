package state

import (
	"context"
	"path/filepath"
	"testing"

	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/env_config"
	"versioned-state/pkg/store"
	"versioned-state/pkg/versioning"

	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := map[string]map[string]string{
		"mem":         {},
		"mem-nocache": {"LOCAL_CACHE_SIZE": "0", "STATE_TYPE": "transactional"},
		"bolt":        {"STATE_BACKEND": "bolt", "BOLT_PATH": filepath.Join(dir, "state.db"), "SERDE_FORMAT": "json"},
		"pebble":      {"STATE_BACKEND": "pebble", "PEBBLE_PATH": filepath.Join(dir, "pebble")},
		"bolt-nontxn": {"STATE_BACKEND": "bolt", "BOLT_PATH": filepath.Join(dir, "plain.db"), "STATE_TYPE": "non-transactional"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := env_config.FromLookup(func(k string) string { return env[k] })
			require.NoError(t, err)
			s, err := NewFromConfig[string, int64](ctx, cfg, "counts", commtypes.StringSerdeG{}, commtypes.Int64SerdeG{})
			require.NoError(t, err)
			defer func() { require.NoError(t, CloseStore(ctx, s.Store())) }()

			require.Equal(t, cfg.StateType, s.Mode())
			require.Equal(t, cfg.Backend, s.Store().TableType())
			_, cached := s.Store().(*store.CachingValueStore[string])
			require.Equal(t, cfg.LocalCacheSize > 0, cached)

			require.NoError(t, s.BatchPut(ctx, []string{"a"}, []int64{10}, 1))
			require.NoError(t, s.BatchPut(ctx, []string{"a"}, []int64{15}, 2))
			if cfg.StateType.Versioned() {
				require.NoError(t, s.BatchPut(ctx, []string{"a"}, []int64{15}, 2))
			}
			requireValue(t, s, "a", 15)
		})
	}
}

func TestNewFromConfigOpaqueDefault(t *testing.T) {
	cfg, err := env_config.FromLookup(func(string) string { return "" })
	require.NoError(t, err)
	s, err := NewFromConfig[string, int64](context.Background(), cfg, "counts", commtypes.StringSerdeG{}, commtypes.Int64SerdeG{})
	require.NoError(t, err)
	require.Equal(t, versioning.Opaque, s.Mode())
}
