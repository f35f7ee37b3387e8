package versioning

import (
	"github.com/tinylib/msgp/msgp"
)

// MarshalMsg implements msgp.Marshaler
func (z *RawRecord) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	// omitempty: check for empty values
	zb0001Len := uint32(4)
	var zb0001Mask uint8 /* 4 bits */
	if z.TxID == 0 {
		zb0001Len--
		zb0001Mask |= 0x4
	}
	if !z.HasTxID {
		zb0001Len--
		zb0001Mask |= 0x8
	}
	// variable map header, size zb0001Len
	o = append(o, 0x80|uint8(zb0001Len))
	// string "p"
	o = append(o, 0xa1, 0x70)
	if z.Payload == nil {
		o = msgp.AppendNil(o)
	} else {
		o = msgp.AppendBytes(o, z.Payload)
	}
	// string "pp"
	o = append(o, 0xa2, 0x70, 0x70)
	if z.Prior == nil {
		o = msgp.AppendNil(o)
	} else {
		o = msgp.AppendBytes(o, z.Prior)
	}
	if (zb0001Mask & 0x4) == 0 { // if not empty
		// string "t"
		o = append(o, 0xa1, 0x74)
		o = msgp.AppendUint64(o, z.TxID)
	}
	if (zb0001Mask & 0x8) == 0 { // if not empty
		// string "ht"
		o = append(o, 0xa2, 0x68, 0x74)
		o = msgp.AppendBool(o, z.HasTxID)
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *RawRecord) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	_ = field
	var zb0001 uint32
	zb0001, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	for zb0001 > 0 {
		zb0001--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			err = msgp.WrapError(err)
			return
		}
		switch msgp.UnsafeString(field) {
		case "p":
			z.Payload, bts, err = readOptionalBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Payload")
				return
			}
		case "pp":
			z.Prior, bts, err = readOptionalBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Prior")
				return
			}
		case "t":
			z.TxID, bts, err = msgp.ReadUint64Bytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "TxID")
				return
			}
		case "ht":
			z.HasTxID, bts, err = msgp.ReadBoolBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "HasTxID")
				return
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				err = msgp.WrapError(err)
				return
			}
		}
	}
	o = bts
	return
}

// readOptionalBytes keeps nil (absent) apart from a present empty value.
func readOptionalBytes(bts []byte) ([]byte, []byte, error) {
	if msgp.IsNil(bts) {
		bts, err := msgp.ReadNilBytes(bts)
		return nil, bts, err
	}
	v, bts, err := msgp.ReadBytesBytes(bts, nil)
	if err != nil {
		return nil, bts, err
	}
	if v == nil {
		v = []byte{}
	}
	return v, bts, nil
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *RawRecord) Msgsize() (s int) {
	s = 1 + 2 + msgp.BytesPrefixSize + len(z.Payload) + 3 + msgp.BytesPrefixSize + len(z.Prior) + 2 + msgp.Uint64Size + 3 + msgp.BoolSize
	return
}
