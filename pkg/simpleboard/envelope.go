package simpleboard

import (
	"bytes"
	"encoding/json"
)

// The persistence API's response envelope has drifted over time: list
// endpoints have returned bare arrays, {"data":[...]} wrappers, and (for
// paged post listings) {"content":[...]} wrappers, depending on version.
// The decoders below accept every historical shape without distinguishing
// by endpoint, and recover from unknown shapes by yielding the zero result
// instead of an error.

type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type pageEnvelope struct {
	Content json.RawMessage `json:"content"`
}

// DecodeList extracts a sequence from a response body. A bare array is used
// directly; an object with a "data" array uses that; anything else yields an
// empty slice.
func DecodeList[T any](body []byte) []T {
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		if items == nil {
			return []T{}
		}
		return items
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		items = nil
		if err := json.Unmarshal(env.Data, &items); err == nil && items != nil {
			return items
		}
	}

	return []T{}
}

// DecodePage extracts a sequence from a paged response body
// ({"content":[...]}), falling back to the DecodeList shapes.
func DecodePage[T any](body []byte) []T {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Content) > 0 {
		var items []T
		if err := json.Unmarshal(env.Content, &items); err == nil && items != nil {
			return items
		}
	}
	return DecodeList[T](body)
}

// DecodeItem extracts a single object from a response body, unwrapping a
// "data" envelope when present. The second return value reports whether a
// non-null object was found.
func DecodeItem[T any](body []byte) (T, bool) {
	var zero T

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && !isJSONNull(env.Data) {
		var item T
		if err := json.Unmarshal(env.Data, &item); err == nil {
			return item, true
		}
	}

	if isJSONNull(body) {
		return zero, false
	}
	var item T
	if err := json.Unmarshal(body, &item); err == nil {
		return item, true
	}
	return zero, false
}

func isJSONNull(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
