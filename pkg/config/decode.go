package config

import (
	"fmt"
	"reflect"

	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// document is the first decoding pass. Mappings stay raw so each one can be
// decoded on top of DefaultMapping.
type document struct {
	Ports    Ports            `mapstructure:"ports"`
	Mappings []map[string]any `mapstructure:"mappings"`
}

func decode(raw map[string]any) (*Config, error) {
	var doc document
	if err := decodeInto(raw, &doc); err != nil {
		return nil, err
	}

	cfg := &Config{Ports: doc.Ports, Mappings: make([]Mapping, 0, len(doc.Mappings))}
	for i, entry := range doc.Mappings {
		m := DefaultMapping()
		if err := decodeInto(entry, &m); err != nil {
			return nil, fmt.Errorf("mappings.%d: %w", i, err)
		}
		cfg.Mappings = append(cfg.Mappings, m)
	}
	return cfg, nil
}

func decodeInto(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			portRefHook,
			channelRefHook,
		),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var (
	portRefType    = reflect.TypeOf(domain.PortRef{})
	channelRefType = reflect.TypeOf(domain.ChannelRef{})
)

// portRefHook accepts ALL, {identifier: x} or a bare identifier.
func portRefHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != portRefType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if v == domain.All {
			return domain.AllPorts, nil
		}
		return domain.PortID(v), nil
	case map[string]any:
		id, ok := v["identifier"].(string)
		if !ok {
			return nil, fmt.Errorf("port reference needs a string identifier, got %v", v["identifier"])
		}
		if len(v) > 1 {
			return nil, fmt.Errorf("port reference accepts only an identifier key")
		}
		return domain.PortID(id), nil
	case domain.PortRef:
		return v, nil
	}
	return nil, fmt.Errorf("expected ALL or {identifier: ...}, got %T", data)
}

// channelRefHook accepts ALL or an integer channel between 0 and 15.
func channelRefHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != channelRefType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		if s == domain.All {
			return domain.AllChannels, nil
		}
		return nil, fmt.Errorf("expected ALL or a channel number, got %q", s)
	}
	if ref, ok := data.(domain.ChannelRef); ok {
		return ref, nil
	}

	var n int64
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n = int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != float64(int64(f)) {
			return nil, fmt.Errorf("channel must be an integer, got %v", f)
		}
		n = int64(f)
	default:
		return nil, fmt.Errorf("expected ALL or a channel number, got %T", data)
	}
	if n < domain.MinChannel || n > domain.MaxChannel {
		return nil, fmt.Errorf("channel %d out of range %d-%d", n, domain.MinChannel, domain.MaxChannel)
	}
	return domain.Channel(uint8(n)), nil
}
