package http

import (
	"bytes"
	"encoding/json"
)

// normalize unwraps the backend's response envelopes to the innermost
// meaningful payload:
//
//	{data: {content: [...]}}  -> content
//	{data: {...}} or {data: [...]} -> the inner value
//	anything else             -> unchanged
//
// On any unwrap failure the original bytes are returned, so decoders must
// re-validate the shape they expect.
func normalize(body []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return body
	}

	inner := bytes.TrimSpace(env.Data)
	if len(inner) == 0 || (inner[0] != '{' && inner[0] != '[') {
		return body
	}

	if inner[0] == '{' {
		var page struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(inner, &page); err == nil && len(page.Content) > 0 {
			return page.Content
		}
	}
	return inner
}

// decodeList normalizes body and decodes it as a slice of T. A payload that
// is not list-shaped decodes to an empty slice: shape mismatches are a
// recoverable empty-result case, never an error.
func decodeList[T any](body []byte) []T {
	var out []T
	if err := json.Unmarshal(normalize(body), &out); err != nil {
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// decodeObject normalizes body and decodes it into out.
func decodeObject(body []byte, out any) error {
	return json.Unmarshal(normalize(body), out)
}
