package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feuerwehr-web/pkg/i18n"
)

// Base carries the id and timestamps every collection document has.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (b *Base) GetID() string   { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool { return s == StatusDraft || s == StatusPublished }

// RichText holds one Lexical document per locale. A bare document (an object
// with a "root" key) is stored for both locales.
type RichText map[i18n.Locale]json.RawMessage

// For returns the document for l, falling back to the other locale.
func (r RichText) For(l i18n.Locale) json.RawMessage {
	if doc := r[l]; len(doc) > 0 && string(doc) != "null" {
		return doc
	}
	if doc := r[i18n.Other(l)]; len(doc) > 0 && string(doc) != "null" {
		return doc
	}
	return nil
}

func (r RichText) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r))
	for l, doc := range r {
		out[string(l)] = doc
	}
	return json.Marshal(out)
}

func (r *RichText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("rich text: %w", err)
	}
	out := make(RichText, len(i18n.Locales))
	if _, single := raw["root"]; single {
		for _, l := range i18n.Locales {
			out[l] = append(json.RawMessage(nil), data...)
		}
		*r = out
		return nil
	}
	for _, l := range i18n.Locales {
		if doc, ok := raw[string(l)]; ok {
			out[l] = doc
		}
	}
	*r = out
	return nil
}

func (r RichText) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	b, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *RichText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return r.UnmarshalJSON(v)
	case string:
		return r.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("rich text: cannot scan %T", src)
	}
}

func (RichText) GormDataType() string { return "text" }

// StringList is a JSON array column, used for ordered references.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	return string(b), err
}

func (s *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("string list: cannot scan %T", src)
	}
	return json.Unmarshal(data, (*[]string)(s))
}

func (StringList) GormDataType() string { return "text" }
