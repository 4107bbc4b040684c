package relay

import (
	"reflect"

	ugorji "github.com/ugorji/go/codec"
)

// MsgpackCodec handles application/msgpack. Struct fields use the codec or
// json tag for their names.
type MsgpackCodec struct {
	handle *ugorji.MsgpackHandle
}

// NewMsgpackCodec creates a msgpack codec that decodes maps as map[string]any
// and raw bytes as strings.
func NewMsgpackCodec() *MsgpackCodec {
	h := &ugorji.MsgpackHandle{}
	h.MapType = reflect.TypeOf(map[string]any(nil))
	h.RawToString = true
	h.WriteExt = true
	return &MsgpackCodec{handle: h}
}

func (c *MsgpackCodec) Encode(_ MediaType, v any) ([]byte, error) {
	var out []byte
	if err := ugorji.NewEncoderBytes(&out, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MsgpackCodec) Decode(_ MediaType, data []byte, v any) error {
	return ugorji.NewDecoderBytes(data, c.handle).Decode(v)
}
