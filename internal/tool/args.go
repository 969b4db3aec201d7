package tool

import (
	"bytes"
	"encoding/json"
	"errors"
)

// wrapperKey is the single-field envelope some agent frameworks put around
// the real argument object, serialized as a JSON string.
const wrapperKey = "__arg1"

var (
	errWrapperJSON = errors.New("invalid JSON in __arg1")
	errNotObject   = errors.New("expected a JSON object")
)

// decodeArgs parses raw into a field map, unwrapping the __arg1 envelope.
// Numbers are kept as json.Number. Empty input is an empty map.
func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]any{}, nil
	}

	args, err := decodeObject(raw)
	if err != nil {
		return nil, errNotObject
	}

	if wrapped, ok := args[wrapperKey].(string); ok {
		inner, err := decodeObject([]byte(wrapped))
		if err != nil {
			return nil, errWrapperJSON
		}
		return inner, nil
	}
	return args, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errNotObject
	}
	return out, nil
}
