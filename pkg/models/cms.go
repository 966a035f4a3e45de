package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CMSConfig declares the admin-editable data model. The admin UI builds its
// forms from it.
type CMSConfig struct {
	MediaFolder  string       `yaml:"media_folder" json:"mediaFolder"`
	PublicFolder string       `yaml:"public_folder" json:"publicFolder"`
	Collections  []Collection `yaml:"collections" json:"collections"`
	Globals      []Collection `yaml:"globals" json:"globals"`
}

type Collection struct {
	Name     string  `yaml:"name" json:"name"`
	Label    string  `yaml:"label" json:"label"`
	ReadOnly bool    `yaml:"read_only,omitempty" json:"readOnly,omitempty"`
	Fields   []Field `yaml:"fields" json:"fields"`
}

type Field struct {
	Name       string      `yaml:"name" json:"name"`
	Label      string      `yaml:"label,omitempty" json:"label,omitempty"`
	Widget     string      `yaml:"widget" json:"widget"`
	Localized  bool        `yaml:"localized,omitempty" json:"localized,omitempty"`
	Required   bool        `yaml:"required,omitempty" json:"required,omitempty"`
	RelationTo string      `yaml:"relation_to,omitempty" json:"relationTo,omitempty"`
	Options    []string    `yaml:"options,omitempty" json:"options,omitempty"`
	Fields     []Field     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Default    interface{} `yaml:"default,omitempty" json:"default,omitempty"`
}

//go:embed cms.yaml
var schemaYAML []byte

// LoadSchema parses the embedded schema declaration.
func LoadSchema() (*CMSConfig, error) {
	var cfg CMSConfig
	if err := yaml.Unmarshal(schemaYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parse cms schema: %w", err)
	}
	return &cfg, nil
}

func (c *CMSConfig) Collection(name string) (*Collection, bool) {
	for i := range c.Collections {
		if c.Collections[i].Name == name {
			return &c.Collections[i], true
		}
	}
	return nil, false
}

func (c *CMSConfig) Global(name string) (*Collection, bool) {
	for i := range c.Globals {
		if c.Globals[i].Name == name {
			return &c.Globals[i], true
		}
	}
	return nil, false
}
