package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LocalizedText maps a language code to a translated string.
type LocalizedText map[string]string

// Value implements driver.Valuer for JSONB columns.
func (t LocalizedText) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB columns.
func (t *LocalizedText) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// In returns the translation for lang, falling back to English.
func (t LocalizedText) In(lang string) string {
	if value, ok := t[lang]; ok && value != "" {
		return value
	}
	return t[LanguageEN]
}

// Responses holds the answers of an evaluation keyed by question id.
type Responses map[string]interface{}

// Value implements driver.Valuer for JSONB columns.
func (r Responses) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB columns.
func (r *Responses) Scan(src interface{}) error {
	return scanJSON(src, r)
}

// Text returns the string answer for a question, or "" when absent or not a string.
func (r Responses) Text(key string) string {
	value, ok := r[key].(string)
	if !ok {
		return ""
	}
	return value
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}
