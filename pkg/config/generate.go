package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/midiroute/pkg/domain"
)

// Generate builds an example config declaring every given port name, pinned
// to its current connector, with a single ALL to ALL mapping.
func Generate(inputs, outputs []string) *Config {
	return &Config{
		Ports: Ports{
			Inputs:  describe("in", inputs),
			Outputs: describe("out", outputs),
		},
		Mappings: []Mapping{DefaultMapping()},
	}
}

func describe(prefix string, names []string) []domain.PortDescriptor {
	descs := make([]domain.PortDescriptor, 0, len(names))
	for i, name := range names {
		device, connector := domain.ParsePortName(name)
		descs = append(descs, domain.PortDescriptor{
			Identifier: fmt.Sprintf("%s_%s_%d", prefix, slug(device), i),
			Name:       device,
			Connector:  connector,
			Type:       domain.PortTypeUSB,
		})
	}
	return descs
}

func slug(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return "port"
	}
	return out
}
