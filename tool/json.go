package tool

import (
	"github.com/bytedance/sonic"
)

// jsonAPI keeps encoding/json semantics (sorted map keys, integer map keys as strings).
var jsonAPI = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

// MarshalPretty is used for every document written to disk.
func MarshalPretty(v any) ([]byte, error) {
	return jsonAPI.MarshalIndent(v, "", "  ")
}

func Unmarshal(data []byte, v any) error {
	return jsonAPI.Unmarshal(data, v)
}
