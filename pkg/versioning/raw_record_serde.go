package versioning

import (
	"encoding/json"
	"fmt"

	"versioned-state/pkg/common_errors"
	"versioned-state/pkg/commtypes"
)

type RawRecordJSONSerdeG struct{}

func (s RawRecordJSONSerdeG) String() string {
	return "RawRecordJSONSerdeG"
}

var _ = fmt.Stringer(RawRecordJSONSerdeG{})

var _ = commtypes.SerdeG[RawRecord](RawRecordJSONSerdeG{})

func (s RawRecordJSONSerdeG) Encode(value RawRecord) ([]byte, error) {
	return json.Marshal(&value)
}

func (s RawRecordJSONSerdeG) Decode(value []byte) (RawRecord, error) {
	v := RawRecord{}
	if err := json.Unmarshal(value, &v); err != nil {
		return RawRecord{}, err
	}
	return v, nil
}

type RawRecordMsgpSerdeG struct{}

func (s RawRecordMsgpSerdeG) String() string {
	return "RawRecordMsgpSerdeG"
}

var _ = fmt.Stringer(RawRecordMsgpSerdeG{})

var _ = commtypes.SerdeG[RawRecord](RawRecordMsgpSerdeG{})

func (s RawRecordMsgpSerdeG) Encode(value RawRecord) ([]byte, error) {
	return value.MarshalMsg(nil)
}

func (s RawRecordMsgpSerdeG) Decode(value []byte) (RawRecord, error) {
	v := RawRecord{}
	if _, err := v.UnmarshalMsg(value); err != nil {
		return RawRecord{}, err
	}
	return v, nil
}

func GetRawRecordSerdeG(serdeFormat commtypes.SerdeFormat) (commtypes.SerdeG[RawRecord], error) {
	switch serdeFormat {
	case commtypes.JSON:
		return RawRecordJSONSerdeG{}, nil
	case commtypes.MSGP:
		return RawRecordMsgpSerdeG{}, nil
	default:
		return nil, common_errors.ErrUnrecognizedSerdeFormat
	}
}
