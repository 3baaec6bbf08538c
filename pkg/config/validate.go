package config

import (
	"errors"
	"fmt"

	"github.com/aretw0/midiroute/pkg/domain"
)

// Validate checks cfg and returns every problem found, joined.
// The returned error wraps domain.ErrInvalidConfig.
func Validate(cfg *Config) error {
	var errs []error
	fail := func(path, format string, args ...any) {
		errs = append(errs, &FieldError{Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]string)
	inputs := make(map[string]bool)
	outputs := make(map[string]bool)

	checkPorts := func(section string, descs []domain.PortDescriptor, known map[string]bool) {
		for i, d := range descs {
			path := fmt.Sprintf("ports.%s.%d", section, i)
			switch {
			case d.Identifier == "":
				fail(path+".identifier", "required")
			case seen[d.Identifier] != "":
				fail(path+".identifier", "duplicate port identifier %q (first declared at %s)", d.Identifier, seen[d.Identifier])
			default:
				seen[d.Identifier] = path
			}
			if d.Identifier != "" {
				known[d.Identifier] = true
			}
			if d.Name == "" {
				fail(path+".name", "required")
			}
			if d.Connector != "" && !domain.ValidConnector(d.Connector) {
				fail(path+".port", "%q does not match N:M", d.Connector)
			}
			switch d.Type {
			case domain.PortTypeUSB:
			case "":
				fail(path+".port_type", "required")
			case domain.PortTypeDIN:
				fail(path+".port_type", "only USB port types are supported")
			default:
				fail(path+".port_type", "unknown port type %q", d.Type)
			}
		}
	}
	checkPorts("inputs", cfg.Ports.Inputs, inputs)
	checkPorts("outputs", cfg.Ports.Outputs, outputs)

	for i, m := range cfg.Mappings {
		path := fmt.Sprintf("mappings.%d", i)
		if !m.FromPort.All && !inputs[m.FromPort.Identifier] {
			fail(path+".from_port.identifier", "unknown input port identifier: %s", m.FromPort.Identifier)
		}
		if !m.ToPort.All && !outputs[m.ToPort.Identifier] {
			fail(path+".to_port.identifier", "unknown output port identifier: %s", m.ToPort.Identifier)
		}
		if !m.FromChannel.All && m.FromChannel.Channel > domain.MaxChannel {
			fail(path+".from_channel", "channel %d out of range %d-%d", m.FromChannel.Channel, domain.MinChannel, domain.MaxChannel)
		}
		if !m.ToChannel.All && m.ToChannel.Channel > domain.MaxChannel {
			fail(path+".to_channel", "channel %d out of range %d-%d", m.ToChannel.Channel, domain.MinChannel, domain.MaxChannel)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
