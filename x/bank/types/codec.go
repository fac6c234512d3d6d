package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
	"cosmossdk.io/math"
)

// UintValue encodes math.Uint balances as their decimal text form.
var UintValue collcodec.ValueCodec[math.Uint] = uintValueCodec{}

type uintValueCodec struct{}

func (uintValueCodec) Encode(value math.Uint) ([]byte, error) {
	return value.Marshal()
}

func (uintValueCodec) Decode(b []byte) (math.Uint, error) {
	if len(b) == 0 {
		return math.Uint{}, fmt.Errorf("%w: empty uint", collcodec.ErrEncoding)
	}
	v := math.ZeroUint()
	if err := v.Unmarshal(b); err != nil {
		return math.Uint{}, fmt.Errorf("%w: %v", collcodec.ErrEncoding, err)
	}
	return v, nil
}

func (uintValueCodec) EncodeJSON(value math.Uint) ([]byte, error) {
	return json.Marshal(value)
}

func (uintValueCodec) DecodeJSON(b []byte) (math.Uint, error) {
	v := math.ZeroUint()
	if err := json.Unmarshal(b, &v); err != nil {
		return math.Uint{}, err
	}
	return v, nil
}

func (uintValueCodec) Stringify(value math.Uint) string {
	return value.String()
}

func (uintValueCodec) ValueType() string {
	return "math.Uint"
}
