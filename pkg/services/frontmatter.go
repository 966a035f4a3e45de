package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"feuerwehr-web/pkg/models"
)

// ParseFrontMatter splits a content file into its front matter and body.
// YAML (---), TOML (+++) and bare JSON objects are recognized; format is
// "yaml", "toml" or "json".
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := normalizeLineEndings(string(content))
	str = strings.TrimPrefix(str, "\ufeff")

	if fm, body, ok := splitFrontMatter(str, "---"); ok {
		var out map[string]interface{}
		if err := yaml.Unmarshal([]byte(fm), &out); err != nil {
			return nil, "", "", fmt.Errorf("yaml front matter: %w", err)
		}
		return sanitizeFrontMatter(out), body, "yaml", nil
	}
	if fm, body, ok := splitFrontMatter(str, "+++"); ok {
		var out map[string]interface{}
		if err := toml.Unmarshal([]byte(fm), &out); err != nil {
			return nil, "", "", fmt.Errorf("toml front matter: %w", err)
		}
		return sanitizeFrontMatter(out), body, "toml", nil
	}
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		var out map[string]interface{}
		if err := json.Unmarshal([]byte(str), &out); err == nil {
			return sanitizeFrontMatter(out), "", "json", nil
		}
	}
	return nil, "", "", fmt.Errorf("unknown format")
}

// splitFrontMatter cuts str at the opening and closing delimiter lines.
func splitFrontMatter(str, delim string) (string, string, bool) {
	if !strings.HasPrefix(str, delim+"\n") {
		return "", "", false
	}
	rest := str[len(delim)+1:]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		if strings.HasPrefix(rest, delim) {
			return "", strings.TrimSpace(strings.TrimPrefix(rest, delim)), true
		}
		return "", "", false
	}
	body := rest[end+1+len(delim):]
	return rest[:end], strings.TrimSpace(body), true
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return map[string]interface{}{}
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[strings.ToLower(k)] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	default:
		return v
	}
}

// ApplyCollectionDefaults fills fields missing from fm with the
// schema defaults of collection.
func ApplyCollectionDefaults(fm map[string]interface{}, collection *models.Collection) {
	if fm == nil || collection == nil {
		return
	}
	for _, field := range collection.Fields {
		if _, exists := fm[strings.ToLower(field.Name)]; !exists && field.Default != nil {
			fm[strings.ToLower(field.Name)] = field.Default
		}
	}
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}

func fmString(fm map[string]interface{}, key string) string {
	switch v := fm[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func fmBool(fm map[string]interface{}, key string) (bool, bool) {
	switch v := fm[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

var frontMatterDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
}

// fmTime reads a date written by YAML, TOML or as a string.
func fmTime(fm map[string]interface{}, key string) (time.Time, bool) {
	switch v := fm[key].(type) {
	case time.Time:
		return v, true
	case toml.LocalDateTime:
		return v.AsTime(time.Local), true
	case toml.LocalDate:
		return v.AsTime(time.Local), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range frontMatterDateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
