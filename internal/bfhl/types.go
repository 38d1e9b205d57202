package bfhl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the request body sent to the service: {"data": [...]}
type Payload struct {
	Data []string `json:"data"`
}

// ParsePayload parses raw user input into a Payload.
// The input must be a JSON object whose "data" field is an array of strings.
// Every other shape is a malformed input error.
func ParsePayload(raw string) (*Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, NewMalformedInputError("empty input", nil)
	}

	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, NewMalformedInputError("input is not valid JSON", err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, NewMalformedInputError(fmt.Sprintf("expected a JSON object, got %s", jsonKind(doc)), nil)
	}

	rawData, ok := obj["data"]
	if !ok {
		return nil, NewMalformedInputError(`missing "data" field`, nil)
	}

	items, ok := rawData.([]any)
	if !ok {
		return nil, NewMalformedInputError(fmt.Sprintf(`"data" must be an array, got %s`, jsonKind(rawData)), nil)
	}

	data := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, NewMalformedInputError(fmt.Sprintf(`"data[%d]" must be a string, got %s`, i, jsonKind(item)), nil)
		}
		data = append(data, s)
	}

	return &Payload{Data: data}, nil
}

// jsonKind names the JSON type of a decoded value
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Response is the service reply. The body is kept verbatim for display.
type Response struct {
	StatusCode int             `json:"status_code"`
	Raw        json.RawMessage `json:"raw"`
}

// Pretty returns the raw body indented with two spaces
func (r *Response) Pretty() string {
	if r == nil || len(r.Raw) == 0 {
		return ""
	}
	var b bytes.Buffer
	if err := json.Indent(&b, r.Raw, "", "  "); err != nil {
		return string(r.Raw)
	}
	return b.String()
}

// Strings returns the string array to filter.
// It prefers a "data" array of strings in an object body, then a body that
// is itself an array of strings, and falls back to the submitted items.
func (r *Response) Strings(fallback []string) []string {
	if r == nil || len(r.Raw) == 0 {
		return fallback
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Raw, &obj); err == nil {
		if data, ok := obj["data"]; ok {
			if items, ok := decodeStrings(data); ok {
				return items
			}
		}
		return fallback
	}

	if items, ok := decodeStrings(r.Raw); ok {
		return items
	}
	return fallback
}

func decodeStrings(raw json.RawMessage) ([]string, bool) {
	var items []*string
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			return nil, false
		}
		out = append(out, *item)
	}
	return out, true
}

// Submitter sends a payload to the remote service
type Submitter interface {
	Submit(ctx context.Context, payload *Payload) (*Response, error)
}
