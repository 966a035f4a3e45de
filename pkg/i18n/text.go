package i18n

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Text is a localized string. Whatever shape the editor sends (plain string or
// per-locale object) is normalized into this map when it is decoded, so code
// past the storage boundary only ever sees one representation.
type Text map[Locale]string

// NewText builds a Text with the same value under every locale.
func NewText(s string) Text {
	t := make(Text, len(Locales))
	for _, l := range Locales {
		t[l] = s
	}
	return t
}

// Get returns the value for l, then the other locale, then fallback.
func (t Text) Get(l Locale, fallback string) string {
	if v := t[l]; v != "" {
		return v
	}
	if v := t[Other(l)]; v != "" {
		return v
	}
	return fallback
}

// Has reports whether l has its own non-empty value.
func (t Text) Has(l Locale) bool { return t[l] != "" }

func (t Text) IsZero() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

func (t Text) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(t))
	for l, v := range t {
		out[string(l)] = v
	}
	return json.Marshal(out)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = NewText(s)
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("localized text: %w", err)
	}
	out := make(Text, len(Locales))
	for _, l := range Locales {
		if s, ok := raw[string(l)].(string); ok {
			out[l] = s
		}
	}
	*t = out
	return nil
}

// Value stores the text as a JSON object column.
func (t Text) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("localized text: cannot scan %T", src)
	}
}

// GormDataType keeps the column a plain text type on every dialect.
func (Text) GormDataType() string { return "text" }

// Resolve resolves a raw CMS value that may be a string or a locale-keyed
// record. Strings are returned unchanged; records yield the requested locale,
// then the other locale, then fallback. Empty strings count as missing.
func Resolve(value any, l Locale, fallback string) string {
	switch v := value.(type) {
	case string:
		return v
	case Text:
		return v.Get(l, fallback)
	case map[Locale]string:
		return Text(v).Get(l, fallback)
	case map[string]string:
		if s := v[string(l)]; s != "" {
			return s
		}
		if s := v[string(Other(l))]; s != "" {
			return s
		}
		return fallback
	case map[string]any:
		if s, ok := v[string(l)].(string); ok && s != "" {
			return s
		}
		if s, ok := v[string(Other(l))].(string); ok && s != "" {
			return s
		}
		return fallback
	default:
		return fallback
	}
}
