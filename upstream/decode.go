package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is an opaque JSON object returned by an upstream.
type Record map[string]any

// decodeJSON decodes b keeping numbers as json.Number so identifiers survive
// the round trip unchanged.
func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// decodeRecord decodes b as a single JSON object.
func decodeRecord(b []byte) (Record, error) {
	v, err := decodeJSON(b)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", kindOf(v))
	}
	return Record(obj), nil
}

// decodeRecords accepts a list of objects, a page object holding the list
// under "data", or a single object.
func decodeRecords(b []byte) ([]Record, error) {
	v, err := decodeJSON(b)
	if err != nil {
		return nil, err
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		if data, ok := t["data"]; ok {
			list, ok := data.([]any)
			if !ok {
				return nil, fmt.Errorf("expected \"data\" to be a list, got %s", kindOf(data))
			}
			items = list
		} else {
			items = []any{t}
		}
	default:
		return nil, fmt.Errorf("expected a JSON list or object, got %s", kindOf(v))
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected a JSON object, got %s", i, kindOf(item))
		}
		records = append(records, Record(obj))
	}
	return records, nil
}

// ID returns the integer identifier stored under key.
func (r Record) ID(key string) (int64, bool) {
	return toInt64(r[key])
}

// matchesID reports whether the value under key, when present, equals id.
// Absent or null keys match.
func (r Record) matchesID(key string, id int64) bool {
	v, present := r[key]
	if !present || v == nil {
		return true
	}
	got, ok := toInt64(v)
	return ok && got == id
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case float64:
		n := int64(t)
		return n, float64(n) == t
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
