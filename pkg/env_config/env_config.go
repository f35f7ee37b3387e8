package env_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/store"
	"versioned-state/pkg/versioning"

	"golang.org/x/xerrors"
)

const (
	DEFAULT_LOCAL_CACHE_SIZE = 1000
	DEFAULT_GLOBAL_KEY       = "$GLOBAL$"
	DEFAULT_MONGO_DB         = "versioned_state"
	DEFAULT_MINIO_BUCKET     = "versioned-state"
)

// Config selects and parameterizes the state backend. LocalCacheSize 0
// disables the read-through cache.
type Config struct {
	Backend         store.TABLE_TYPE
	StateType       versioning.StateType
	SerdeFormat     commtypes.SerdeFormat
	LocalCacheSize  int
	GlobalKey       string
	MongoAddr       string
	MongoDB         string
	MongoCollection string
	RedisAddr       []string
	MinioAddr       []string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	BoltPath        string
	PebblePath      string
}

// FromEnv reads the configuration from the environment.
func FromEnv() (*Config, error) {
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv; unset variables take defaults.
func FromLookup(getenv func(string) string) (*Config, error) {
	backend, err := store.ParseTableType(getenv("STATE_BACKEND"))
	if err != nil {
		return nil, err
	}
	stateTypeStr := getenv("STATE_TYPE")
	if stateTypeStr == "" {
		stateTypeStr = versioning.Opaque.String()
	}
	stateType, err := versioning.ParseStateType(stateTypeStr)
	if err != nil {
		return nil, err
	}
	serdeFormat, err := commtypes.ParseSerdeFormat(getenv("SERDE_FORMAT"))
	if err != nil {
		return nil, err
	}
	cacheSize := DEFAULT_LOCAL_CACHE_SIZE
	if s := getenv("LOCAL_CACHE_SIZE"); s != "" {
		cacheSize, err = strconv.Atoi(s)
		if err != nil || cacheSize < 0 {
			return nil, xerrors.Errorf("LOCAL_CACHE_SIZE should be a non-negative integer, got %q", s)
		}
	}
	cfg := &Config{
		Backend:         backend,
		StateType:       stateType,
		SerdeFormat:     serdeFormat,
		LocalCacheSize:  cacheSize,
		GlobalKey:       orDefault(getenv("GLOBAL_KEY"), DEFAULT_GLOBAL_KEY),
		MongoAddr:       getenv("MONGO_ADDR"),
		MongoDB:         orDefault(getenv("MONGO_DB"), DEFAULT_MONGO_DB),
		MongoCollection: getenv("MONGO_COLLECTION"),
		RedisAddr:       splitList(getenv("REDIS_ADDR")),
		MinioAddr:       splitList(getenv("MINIO_ADDR")),
		MinioAccessKey:  getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:  getenv("MINIO_SECRET_KEY"),
		MinioBucket:     orDefault(getenv("MINIO_BUCKET"), DEFAULT_MINIO_BUCKET),
		BoltPath:        getenv("BOLT_PATH"),
		PebblePath:      getenv("PEBBLE_PATH"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs to connect.
func (c *Config) Validate() error {
	switch c.Backend {
	case store.MONGODB:
		if c.MongoAddr == "" {
			return xerrors.New("MONGO_ADDR is required for the mongodb backend")
		}
	case store.REDIS:
		if len(c.RedisAddr) == 0 {
			return xerrors.New("REDIS_ADDR is required for the redis backend")
		}
	case store.MINIO:
		if len(c.MinioAddr) == 0 {
			return xerrors.New("MINIO_ADDR is required for the minio backend")
		}
	case store.BOLT:
		if c.BoltPath == "" {
			return xerrors.New("BOLT_PATH is required for the bolt backend")
		}
	case store.PEBBLE:
		if c.PebblePath == "" {
			return xerrors.New("PEBBLE_PATH is required for the pebble backend")
		}
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("backend: %s, state type: %s, serde: %s, cache: %d",
		c.Backend, c.StateType, c.SerdeFormat, c.LocalCacheSize)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}
