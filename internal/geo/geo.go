// Package geo maps continent-level region names onto the country codes a
// hunt iterates over.
package geo

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// continents holds the country codes searched per region. Codes double as
// the country_code hint passed to the rendering API.
var continents = map[string][]string{
	"north_america": {"us", "ca", "mx"},
	"south_america": {"br", "ar", "cl", "co", "pe"},
	"europe":        {"gb", "de", "fr", "es", "it", "nl", "se", "pl"},
	"asia":          {"jp", "cn", "in", "sg", "kr", "hk"},
	"oceania":       {"au", "nz"},
	"africa":        {"za", "ng", "eg", "ke"},
	"middle_east":   {"ae", "sa", "il", "tr"},
}

// Regions returns the country codes for a named region. The special name
// "all" yields every region's codes in region-name order; "" behaves like
// "all".
func Regions(name string) ([]string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "all" {
		var codes []string
		for _, region := range Names() {
			codes = append(codes, continents[region]...)
		}
		return codes, nil
	}
	codes, ok := continents[name]
	if !ok {
		return nil, eris.Errorf("geo: unknown region %q", name)
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out, nil
}

// Names lists the known region names, sorted.
func Names() []string {
	out := make([]string, 0, len(continents))
	for name := range continents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
