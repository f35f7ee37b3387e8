//go:generate stringer -type=SerdeFormat
package commtypes

import (
	"encoding/binary"
	"encoding/json"

	"versioned-state/pkg/common_errors"

	"golang.org/x/xerrors"
)

var (
	sizeNot8 = xerrors.New("size of value to deserialized is not 8")
)

type SerdeFormat uint8

const (
	JSON SerdeFormat = 0
	MSGP SerdeFormat = 1
)

func (f SerdeFormat) String() string {
	switch f {
	case JSON:
		return "json"
	case MSGP:
		return "msgp"
	default:
		return "unknown"
	}
}

func ParseSerdeFormat(s string) (SerdeFormat, error) {
	switch s {
	case "json", "JSON":
		return JSON, nil
	case "msgp", "MSGP", "":
		return MSGP, nil
	default:
		return 0, xerrors.Errorf("%q: %w", s, common_errors.ErrUnrecognizedSerdeFormat)
	}
}

type EncoderG[V any] interface {
	Encode(v V) ([]byte, error)
}

type DecoderG[V any] interface {
	Decode([]byte) (V, error)
}

type SerdeG[V any] interface {
	EncoderG[V]
	DecoderG[V]
}

type Uint64EncoderG struct{}

var _ = EncoderG[uint64](Uint64EncoderG{})

func (e Uint64EncoderG) Encode(value uint64) ([]byte, error) {
	bs := make([]byte, 8)
	binary.BigEndian.PutUint64(bs, value)
	return bs, nil
}

type Uint64DecoderG struct{}

var _ = DecoderG[uint64](Uint64DecoderG{})

func (d Uint64DecoderG) Decode(value []byte) (uint64, error) {
	if value == nil {
		return 0, nil
	}
	if len(value) != 8 {
		return 0, sizeNot8
	}
	return binary.BigEndian.Uint64(value), nil
}

type Uint64SerdeG struct {
	Uint64EncoderG
	Uint64DecoderG
}

var _ = SerdeG[uint64](Uint64SerdeG{})

type Int64EncoderG struct{}

var _ = EncoderG[int64](Int64EncoderG{})

func (e Int64EncoderG) Encode(value int64) ([]byte, error) {
	bs := make([]byte, 8)
	binary.BigEndian.PutUint64(bs, uint64(value))
	return bs, nil
}

type Int64DecoderG struct{}

var _ = DecoderG[int64](Int64DecoderG{})

func (d Int64DecoderG) Decode(value []byte) (int64, error) {
	if value == nil {
		return 0, nil
	}
	if len(value) != 8 {
		return 0, sizeNot8
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}

type Int64SerdeG struct {
	Int64EncoderG
	Int64DecoderG
}

var _ = SerdeG[int64](Int64SerdeG{})

type StringEncoderG struct{}

var _ = EncoderG[string](StringEncoderG{})

func (e StringEncoderG) Encode(value string) ([]byte, error) {
	return []byte(value), nil
}

type StringDecoderG struct{}

var _ = DecoderG[string](StringDecoderG{})

func (d StringDecoderG) Decode(value []byte) (string, error) {
	if value == nil {
		return "", nil
	}
	return string(value), nil
}

type StringSerdeG struct {
	StringEncoderG
	StringDecoderG
}

var _ = SerdeG[string](StringSerdeG{})

// JSONSerdeG serializes any json-compatible aggregate.
type JSONSerdeG[V any] struct{}

var _ = SerdeG[map[string]int](JSONSerdeG[map[string]int]{})

func (s JSONSerdeG[V]) Encode(value V) ([]byte, error) {
	return json.Marshal(value)
}

func (s JSONSerdeG[V]) Decode(value []byte) (V, error) {
	var v V
	if err := json.Unmarshal(value, &v); err != nil {
		return v, err
	}
	return v, nil
}
