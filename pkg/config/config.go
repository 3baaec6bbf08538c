package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/midiroute/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "config.yaml"

// Ports groups the declared input and output ports.
type Ports struct {
	Inputs  []domain.PortDescriptor `yaml:"inputs" mapstructure:"inputs"`
	Outputs []domain.PortDescriptor `yaml:"outputs" mapstructure:"outputs"`
}

// Mapping is one routing rule as written in the file.
type Mapping struct {
	FromPort    domain.PortRef    `mapstructure:"from_port"`
	ToPort      domain.PortRef    `mapstructure:"to_port"`
	FromChannel domain.ChannelRef `mapstructure:"from_channel"`
	ToChannel   domain.ChannelRef `mapstructure:"to_channel"`
}

// DefaultMapping routes every channel of every input to every output.
func DefaultMapping() Mapping {
	return Mapping{
		FromPort:    domain.AllPorts,
		ToPort:      domain.AllPorts,
		FromChannel: domain.AllChannels,
		ToChannel:   domain.AllChannels,
	}
}

// Rule converts the mapping into a routing rule.
func (m Mapping) Rule() domain.RoutingRule {
	return domain.RoutingRule{
		From:        m.FromPort,
		To:          m.ToPort,
		FromChannel: m.FromChannel,
		ToChannel:   m.ToChannel,
	}
}

// MarshalYAML writes wildcards as ALL and port references as {identifier: x}.
func (m Mapping) MarshalYAML() (any, error) {
	return struct {
		FromPort    any `yaml:"from_port"`
		ToPort      any `yaml:"to_port"`
		FromChannel any `yaml:"from_channel"`
		ToChannel   any `yaml:"to_channel"`
	}{
		FromPort:    portValue(m.FromPort),
		ToPort:      portValue(m.ToPort),
		FromChannel: channelValue(m.FromChannel),
		ToChannel:   channelValue(m.ToChannel),
	}, nil
}

func portValue(r domain.PortRef) any {
	if r.All {
		return domain.All
	}
	return map[string]string{"identifier": r.Identifier}
}

func channelValue(c domain.ChannelRef) any {
	if c.All {
		return domain.All
	}
	return int(c.Channel)
}

// Config is the whole router configuration.
type Config struct {
	Ports    Ports     `yaml:"ports"`
	Mappings []Mapping `yaml:"mappings"`
}

// Rules returns the mappings as routing rules, in declaration order.
func (c *Config) Rules() []domain.RoutingRule {
	rules := make([]domain.RoutingRule, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		rules = append(rules, m.Rule())
	}
	return rules
}

// Parse decodes a YAML document without validating it.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	cfg, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Load reads, parses and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes cfg as YAML to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// Save writes cfg to path, replacing any existing file.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
