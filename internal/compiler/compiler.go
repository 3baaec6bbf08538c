// Package compiler turns routing rules into a per-input dispatch table.
package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/midiroute/internal/resolver"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/ports"
)

// Predicate decides whether a message enters a pipeline.
type Predicate func(msg midi.Message) bool

// Transform rewrites a message accepted by a pipeline.
type Transform func(msg midi.Message) midi.Message

// Pipeline is the compiled form of one routing rule.
type Pipeline struct {
	Rule         domain.RoutingRule
	Accept       Predicate
	Transform    Transform
	Destinations []ports.OutputPort
}

// Apply runs the predicate and, if it passes, the transform.
func (p *Pipeline) Apply(msg midi.Message) (midi.Message, bool) {
	if !p.Accept(msg) {
		return msg, false
	}
	return p.Transform(msg), true
}

// Describe renders the pipeline for debug dumps.
func (p *Pipeline) Describe() string {
	names := make([]string, len(p.Destinations))
	for i, d := range p.Destinations {
		names[i] = d.Name()
	}
	return fmt.Sprintf("%s => [%s]", p.Rule, strings.Join(names, ", "))
}

// Table maps an opened input's concrete name to its pipelines, in rule order.
// It is built once per session and never mutated afterwards.
type Table map[string][]*Pipeline

// Lookup returns the pipelines for an origin; unknown origins have none.
func (t Table) Lookup(origin string) []*Pipeline {
	return t[origin]
}

// Describe renders the table for debug dumps, keyed by origin.
func (t Table) Describe() map[string][]string {
	out := make(map[string][]string, len(t))
	for origin, pipelines := range t {
		lines := make([]string, len(pipelines))
		for i, p := range pipelines {
			lines[i] = p.Describe()
		}
		out[origin] = lines
	}
	return out
}

// Topology is what the compiler needs to know about one session's ports.
type Topology struct {
	Inputs  resolver.Assignment
	Outputs resolver.Assignment

	// OpenInputs lists the concrete input names that were actually opened.
	OpenInputs []string
	// OpenOutputs lists the opened output ports in declaration order.
	OpenOutputs []ports.OutputPort
}

// Compile builds the dispatch table for rules over topo.
// Rules whose source or destination did not resolve, or whose port failed to open,
// contribute nothing rather than failing.
func Compile(rules []domain.RoutingRule, topo Topology) Table {
	table := make(Table, len(topo.OpenInputs))
	opened := make(map[string]bool, len(topo.OpenInputs))
	for _, name := range topo.OpenInputs {
		table[name] = []*Pipeline{}
		opened[name] = true
	}

	outputsByName := make(map[string]ports.OutputPort, len(topo.OpenOutputs))
	for _, out := range topo.OpenOutputs {
		outputsByName[out.Name()] = out
	}

	for _, rule := range rules {
		p := &Pipeline{
			Rule:         rule,
			Accept:       channelFilter(rule.FromChannel),
			Transform:    channelRemap(rule.FromChannel, rule.ToChannel),
			Destinations: destinations(rule.To, topo, outputsByName),
		}

		if rule.From.All {
			for _, name := range topo.OpenInputs {
				table[name] = append(table[name], p)
			}
			continue
		}

		name := topo.Inputs.Lookup(rule.From.Identifier)
		if name == "" || !opened[name] {
			continue
		}
		table[name] = append(table[name], p)
	}
	return table
}

func destinations(to domain.PortRef, topo Topology, byName map[string]ports.OutputPort) []ports.OutputPort {
	if to.All {
		return append([]ports.OutputPort(nil), topo.OpenOutputs...)
	}
	name := topo.Outputs.Lookup(to.Identifier)
	if out, ok := byName[name]; ok && name != "" {
		return []ports.OutputPort{out}
	}
	return nil
}

// channelFilter accepts messages on the filter channel and every message without a channel.
func channelFilter(from domain.ChannelRef) Predicate {
	if from.All {
		return acceptAll
	}
	return func(msg midi.Message) bool {
		ch, ok := msg.ChannelOf()
		return !ok || ch == from.Channel
	}
}

// channelRemap moves channel messages to the target channel.
// Remapping onto the filter channel is a no-op.
func channelRemap(from, to domain.ChannelRef) Transform {
	if to.All || (!from.All && from.Channel == to.Channel) {
		return identity
	}
	return func(msg midi.Message) midi.Message {
		return msg.WithChannel(to.Channel)
	}
}

func acceptAll(midi.Message) bool { return true }

func identity(msg midi.Message) midi.Message { return msg }
