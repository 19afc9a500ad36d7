// Package parse turns source result markup into raw hits using per-source
// selector schemas.
package parse

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed schemas.yaml
var schemasYAML []byte

// URLRule describes how a result's URL is extracted and cleaned.
type URLRule struct {
	Selector string `yaml:"selector"`
	Attr     string `yaml:"attr"`
	// Base is prefixed onto relative URLs.
	Base string `yaml:"base"`
	// StripQuery drops everything from the first '?' or '&'.
	StripQuery bool `yaml:"strip_query"`
	// UnwrapRedirect strips the search engine's "/url?q=" redirect wrapper.
	UnwrapRedirect bool `yaml:"unwrap_redirect"`
	// FilterSubstring, when set, drops results whose URL lacks it.
	FilterSubstring string `yaml:"filter_substring"`
}

// Schema maps one source's markup structure onto raw hit fields.
type Schema struct {
	// Container, when set, must exist or the page is treated as empty
	// (often a sign of blocking).
	Container string            `yaml:"container"`
	Result    string            `yaml:"result"`
	Fields    map[string]string `yaml:"fields"`
	URL       URLRule           `yaml:"url"`
	Required  []string          `yaml:"required"`
}

type schemaFile struct {
	Sources map[string]Schema `yaml:"sources"`
}

// LoadSchemas parses the embedded selector schemas.
func LoadSchemas() (map[string]Schema, error) {
	var f schemaFile
	if err := yaml.Unmarshal(schemasYAML, &f); err != nil {
		return nil, eris.Wrap(err, "parse: unmarshal schemas")
	}
	if len(f.Sources) == 0 {
		return nil, eris.New("parse: no source schemas defined")
	}
	return f.Sources, nil
}
