package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/tree"
)

// marshalPayload converts a verdict payload (tree, error kind or error
// descriptor) to tree shape and encodes it as a msgpack blob. A nil
// payload is stored as NULL.
func marshalPayload(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	t, err := tree.FromGo(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return tree.EncodeBlob(t)
}

// unmarshalPayload restores a payload written by marshalPayload. Payloads
// come back in tree shape: an error descriptor is returned as an object.
func unmarshalPayload(data []byte) (any, error) {
	v, err := tree.DecodeBlob(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return v, nil
}

func marshalProblems(problems []fixture.Problem) ([]byte, error) {
	if len(problems) == 0 {
		return nil, nil
	}
	data, err := msgpack.Marshal(problems)
	if err != nil {
		return nil, fmt.Errorf("marshal problems: %w", err)
	}
	return data, nil
}

func unmarshalProblems(data []byte) ([]fixture.Problem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var problems []fixture.Problem
	if err := msgpack.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("unmarshal problems: %w", err)
	}
	return problems, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
