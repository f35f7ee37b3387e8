package store

import (
	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"
	"versioned-state/pkg/versioning"

	"golang.org/x/xerrors"
)

// BytesConfig is shared by the byte oriented backends: keys go through
// KeySerde, records through the RawRecord envelope of SerdeFormat.
type BytesConfig[K any] struct {
	KeySerde    commtypes.EncoderG[K]
	SerdeFormat commtypes.SerdeFormat
}

type recordBytes[K any] struct {
	keySerde commtypes.EncoderG[K]
	recSerde commtypes.SerdeG[versioning.RawRecord]
}

func newRecordBytes[K any](cfg BytesConfig[K]) (recordBytes[K], error) {
	recSerde, err := versioning.GetRawRecordSerdeG(cfg.SerdeFormat)
	if err != nil {
		return recordBytes[K]{}, err
	}
	return recordBytes[K]{keySerde: cfg.KeySerde, recSerde: recSerde}, nil
}

func (rb recordBytes[K]) encodeKey(key K) ([]byte, error) {
	kBytes, err := rb.keySerde.Encode(key)
	if err != nil {
		return nil, xerrors.Errorf("key encode err: %w", err)
	}
	return kBytes, nil
}

func (rb recordBytes[K]) encodeRecord(rec versioning.RawRecord) ([]byte, error) {
	return rb.recSerde.Encode(rec)
}

func (rb recordBytes[K]) decodeRecord(b []byte) (versioning.RawRecord, error) {
	rec, err := rb.recSerde.Decode(b)
	if err != nil {
		return versioning.RawRecord{}, xerrors.Errorf("record envelope: %v: %w", err, common_errors.ErrDecode)
	}
	return rec, nil
}
