package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wrapper every backend response shares:
// {success, data?, error?, message?}.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the envelope payload into T. An absent payload yields the
// zero value, which callers rely on for void endpoints (delete, lock).
func Decode[T any](env *Envelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}

// fieldErrors pulls field-level validation messages out of the data payload,
// best effort: the backend ships them as a string map when validation fails.
func fieldErrors(data json.RawMessage) map[string]string {
	if len(data) == 0 {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || len(m) == 0 {
		return nil
	}
	return m
}
