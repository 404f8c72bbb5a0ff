package tree

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeBlob serializes a tree into a compact msgpack blob for storage.
func EncodeBlob(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode blob: %w", err)
	}
	return data, nil
}

// DecodeBlob restores a tree written by EncodeBlob.
//
// msgpack decodes integers into sized Go ints, so the result is passed
// through FromGo to get back the float64 numbers every other package
// expects.
func DecodeBlob(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}
	return FromGo(v)
}
