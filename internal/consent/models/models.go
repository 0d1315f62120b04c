package models

import (
	"encoding/json"
	"fmt"
)

// DefaultCookieType is the implicit cookie type used when a caller passes an
// empty type name. Single-category consumers can ignore cookie types entirely.
const DefaultCookieType = "default"

// StateKey is the fixed persistence key under which the whole consent map is
// stored as one serialized blob.
const StateKey = "cookie-consent"

// Value is the recorded consent decision for a cookie type. The persisted
// encoding is numeric: 0 = revoked, 1 = granted. Absence of a key means the
// user has not responded ("unset"); unset is never written to storage.
type Value int

const (
	ValueRevoked Value = 0
	ValueGranted Value = 1
)

// IsValid reports whether the value is one of the two recordable decisions.
// Anything else in the map is corruption and reverts to unset on next read.
func (v Value) IsValid() bool {
	return v == ValueRevoked || v == ValueGranted
}

func (v Value) String() string {
	switch v {
	case ValueGranted:
		return "granted"
	case ValueRevoked:
		return "revoked"
	default:
		return fmt.Sprintf("invalid(%d)", int(v))
	}
}

// StateMap is the in-memory consent map, cookie type to decision. It mirrors
// the persisted blob: a flat JSON object with numeric values, no versioning.
type StateMap map[string]Value

// EncodeState serializes the consent map to the persisted blob format.
func EncodeState(m StateMap) (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode consent state: %w", err)
	}
	return string(raw), nil
}

// DecodeState parses a persisted blob. An error means the blob is corrupt as
// a whole (not a JSON object of numeric values) and the caller should discard
// it. Numeric values outside the valid range decode successfully; they are
// tolerated at load time and normalized lazily on read.
func DecodeState(blob string) (StateMap, error) {
	var m StateMap
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return nil, fmt.Errorf("decode consent state: %w", err)
	}
	if m == nil {
		// "null" decodes without error but is not a mapping.
		return nil, fmt.Errorf("decode consent state: not an object")
	}
	return m, nil
}
