package store

import (
	"versioned-state/pkg/common_errors"

	"golang.org/x/xerrors"
)

type TABLE_TYPE uint8

const (
	IN_MEM  TABLE_TYPE = 0
	MONGODB TABLE_TYPE = 1
	REDIS   TABLE_TYPE = 2
	MINIO   TABLE_TYPE = 3
	BOLT    TABLE_TYPE = 4
	PEBBLE  TABLE_TYPE = 5
)

func (t TABLE_TYPE) String() string {
	switch t {
	case IN_MEM:
		return "mem"
	case MONGODB:
		return "mongodb"
	case REDIS:
		return "redis"
	case MINIO:
		return "minio"
	case BOLT:
		return "bolt"
	case PEBBLE:
		return "pebble"
	default:
		return "unknown"
	}
}

func ParseTableType(s string) (TABLE_TYPE, error) {
	switch s {
	case "mem", "", "memory":
		return IN_MEM, nil
	case "mongodb", "mongo":
		return MONGODB, nil
	case "redis":
		return REDIS, nil
	case "minio", "s3":
		return MINIO, nil
	case "bolt", "bbolt":
		return BOLT, nil
	case "pebble":
		return PEBBLE, nil
	default:
		return 0, xerrors.Errorf("%q: %w", s, common_errors.ErrUnknownBackend)
	}
}
