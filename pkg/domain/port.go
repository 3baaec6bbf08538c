package domain

import (
	"fmt"
	"regexp"
)

// PortType is the physical transport of a port.
type PortType string

const (
	PortTypeUSB PortType = "USB"
	PortTypeDIN PortType = "DIN"
)

// connectorPattern matches the "client:port" suffix exposed by MIDI drivers.
var connectorPattern = regexp.MustCompile(`^\d+:\d+$`)

// concreteNamePattern splits a concrete port name into device name and connector.
var concreteNamePattern = regexp.MustCompile(`^(.*) (\d+:\d+)$`)

// PortDescriptor describes a logical port as declared in configuration.
type PortDescriptor struct {
	// Identifier is the stable, user-assigned name used by routing rules.
	Identifier string `json:"identifier" yaml:"identifier" mapstructure:"identifier"`

	// Name is the device name, without connector suffix.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Connector pins the descriptor to one exact concrete port ("N:M").
	// Empty means any port of the device may be used.
	Connector string `json:"port,omitempty" yaml:"port,omitempty" mapstructure:"port"`

	Type PortType `json:"port_type" yaml:"port_type" mapstructure:"port_type"`
}

// Pinned reports whether the descriptor is bound to an exact connector.
func (p PortDescriptor) Pinned() bool {
	return p.Connector != ""
}

// ConcreteName returns the full port name this descriptor matches exactly.
// For unpinned descriptors it is the bare device name.
func (p PortDescriptor) ConcreteName() string {
	return FormatPortName(p.Name, p.Connector)
}

// ParsePortName splits a concrete port name into its device name and connector.
// Names without a connector suffix return an empty connector.
func ParsePortName(name string) (device, connector string) {
	m := concreteNamePattern.FindStringSubmatch(name)
	if m == nil {
		return name, ""
	}
	return m[1], m[2]
}

// FormatPortName is the inverse of ParsePortName.
func FormatPortName(device, connector string) string {
	if connector == "" {
		return device
	}
	return fmt.Sprintf("%s %s", device, connector)
}

// ValidConnector reports whether s has the "N:M" connector shape.
func ValidConnector(s string) bool {
	return connectorPattern.MatchString(s)
}
