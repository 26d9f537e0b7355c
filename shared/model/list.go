package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// StringList is a list persisted as serialized JSON text in a single column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}

	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*l = StringList{}

		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type %T for string list", src)
	}

	if len(raw) == 0 {
		*l = StringList{}

		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}

	*l = out

	return nil
}

// Contains reports whether value is a member of the list.
func (l StringList) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}

	return false
}

// JSONText holds an arbitrary JSON document stored as text.
type JSONText []byte

func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}

	return string(j), nil
}

func (j *JSONText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = JSONText("{}")
	case string:
		*j = JSONText(v)
	case []byte:
		*j = append(JSONText(nil), v...)
	default:
		return fmt.Errorf("unsupported type %T for json text", src)
	}

	return nil
}

func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}

	return j, nil
}

func (j *JSONText) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)

	return nil
}

// Encode marshals v into JSONText.
func Encode(v any) (JSONText, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json text: %w", err)
	}

	return b, nil
}

// Decode unmarshals the document into v.
func (j JSONText) Decode(v any) error {
	if len(j) == 0 {
		return nil
	}

	if err := json.Unmarshal(j, v); err != nil {
		return fmt.Errorf("failed to decode json text: %w", err)
	}

	return nil
}
