package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout matches the millisecond-precision UTC form produced by
// browsers for Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Identifier prefixes for server-stamped records.
const (
	OrderIDPrefix   = "DO"
	ContactIDPrefix = "CT"
)

// Initial statuses assigned on submission. No code path transitions them.
const (
	OrderStatusReceived = "received"
	ContactStatusUnread = "unread"
)

// Document is a schema-free JSON object. Keys the server does not know about
// are kept as raw JSON and written back untouched.
type Document map[string]json.RawMessage

// ParseDocument decodes a request body into a Document. An empty body is
// treated as an empty object; any other non-object JSON value is rejected.
func ParseDocument(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, nil
	}
	if trimmed[0] != '{' {
		return nil, ErrNotAJSONObject
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Set stores value under key, replacing whatever the client sent.
func (d Document) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode field %s: %w", key, err)
	}
	d[key] = raw
	return nil
}

// String returns the value of key when it holds a JSON string.
func (d Document) String(key string) (string, bool) {
	raw, ok := d[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Text returns the value of key as a string. Strings come back unquoted,
// other values as their JSON text, and null or a missing key as "".
func (d Document) Text(key string) string {
	if s, ok := d.String(key); ok {
		return s
	}
	raw := bytes.TrimSpace(d[key])
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

// Number returns the value of key as a float. Numeric strings are parsed;
// anything else yields 0.
func (d Document) Number(key string) float64 {
	raw, ok := d[key]
	if !ok {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	if s, ok := d.String(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// Object returns the value of key as a Document, or an empty one when it is
// not a JSON object.
func (d Document) Object(key string) Document {
	var obj Document
	if err := json.Unmarshal(d[key], &obj); err != nil || obj == nil {
		return Document{}
	}
	return obj
}

// Objects returns the object elements of the array under key. Elements that
// are not objects are skipped.
func (d Document) Objects(key string) []Document {
	var elems []json.RawMessage
	if err := json.Unmarshal(d[key], &elems); err != nil {
		return nil
	}

	out := make([]Document, 0, len(elems))
	for _, raw := range elems {
		var obj Document
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Truthy reports whether key is present and holds a value that is not null,
// false, zero or the empty string.
func (d Document) Truthy(key string) bool {
	raw, ok := d[key]
	if !ok {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// FormatTimestamp renders t in TimestampLayout, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewOrderID builds an order identifier from the submission time.
func NewOrderID(t time.Time) string {
	return OrderIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// NewContactID builds a contact identifier from the submission time.
func NewContactID(t time.Time) string {
	return ContactIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}
