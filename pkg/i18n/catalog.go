package i18n

import (
	"embed"
	"fmt"
	"sync"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Catalog holds the UI labels of both locales.
type Catalog struct {
	builder  *catalog.Builder
	keys     map[Locale]map[string]struct{}
	printers map[Locale]*message.Printer
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded files are
// broken, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadCatalog()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func LoadCatalog() (*Catalog, error) {
	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(DefaultLocale.Tag())),
		keys:     make(map[Locale]map[string]struct{}),
		printers: make(map[Locale]*message.Printer),
	}
	for _, l := range Locales {
		data, err := localesFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", l, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", l, err)
		}
		c.keys[l] = make(map[string]struct{}, len(messages))
		for key, msg := range messages {
			if err := c.builder.SetString(l.Tag(), key, msg); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", l, key, err)
			}
			c.keys[l][key] = struct{}{}
		}
	}
	for _, l := range Locales {
		c.printers[l] = message.NewPrinter(l.Tag(), message.Catalog(c.builder))
	}
	return c, nil
}

// T translates key for l. Missing keys fall back to the other locale and
// finally to the key itself.
func (c *Catalog) T(l Locale, key string, args ...any) string {
	if _, ok := c.keys[l][key]; !ok {
		if _, ok := c.keys[Other(l)][key]; !ok {
			return key
		}
		l = Other(l)
	}
	return c.printers[l].Sprintf(key, args...)
}

// T translates with the default catalog.
func T(l Locale, key string, args ...any) string {
	return Default().T(l, key, args...)
}
