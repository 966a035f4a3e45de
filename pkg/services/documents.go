package services

import (
	"encoding/json"
	"strings"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
)

// PrepareDocument checks an admin document body against the collection
// schema and returns the normalized JSON. New documents get the schema
// defaults for missing fields; an empty slug is derived from the title,
// label or name.
func PrepareDocument(collection *models.Collection, raw []byte, create bool) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, &ValidationError{Key: "validation.invalid"}
	}
	if create {
		ApplyCollectionDefaults(doc, collection)
	}

	for _, f := range collection.Fields {
		if f.Widget == "slug" && isEmptyValue(doc[f.Name]) {
			if title := documentTitle(doc); title != "" {
				doc[f.Name] = Slugify(title)
			}
		}
	}
	for _, f := range collection.Fields {
		v, present := doc[f.Name]
		if f.Required && isEmptyValue(v) {
			if !create && !present {
				continue
			}
			return nil, &ValidationError{Field: f.Name, Key: "validation.required"}
		}
		if f.Widget == "select" && len(f.Options) > 0 && !isEmptyValue(v) {
			s, _ := v.(string)
			if !contains(f.Options, s) {
				return nil, &ValidationError{Field: f.Name, Key: "validation.invalid"}
			}
		}
	}
	return json.Marshal(doc)
}

// documentTitle is the default-locale title, label or name of doc.
func documentTitle(doc map[string]interface{}) string {
	for _, key := range []string{"title", "label", "name"} {
		if v := i18n.Resolve(doc[key], i18n.DefaultLocale, ""); v != "" {
			return v
		}
	}
	return ""
}

func isEmptyValue(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case map[string]interface{}:
		for _, inner := range x {
			if !isEmptyValue(inner) {
				return false
			}
		}
		return true
	case []interface{}:
		return len(x) == 0
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
