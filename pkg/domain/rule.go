package domain

import (
	"fmt"
	"strconv"
)

// PortRef references a logical port by identifier, or every port when All is set.
type PortRef struct {
	Identifier string
	All        bool
}

// AllPorts is the wildcard port reference.
var AllPorts = PortRef{All: true}

// PortID references a single logical port.
func PortID(identifier string) PortRef {
	return PortRef{Identifier: identifier}
}

func (r PortRef) String() string {
	if r.All {
		return All
	}
	return r.Identifier
}

// ChannelRef references a single MIDI channel, or every channel when All is set.
type ChannelRef struct {
	Channel uint8
	All     bool
}

// AllChannels is the wildcard channel reference.
var AllChannels = ChannelRef{All: true}

// Channel references a single zero based channel.
func Channel(ch uint8) ChannelRef {
	return ChannelRef{Channel: ch}
}

func (c ChannelRef) String() string {
	if c.All {
		return All
	}
	return strconv.Itoa(int(c.Channel))
}

// RoutingRule declares that messages from one source are forwarded to one destination.
type RoutingRule struct {
	From        PortRef
	To          PortRef
	FromChannel ChannelRef
	ToChannel   ChannelRef
}

// DefaultRule routes everything everywhere.
func DefaultRule() RoutingRule {
	return RoutingRule{
		From:        AllPorts,
		To:          AllPorts,
		FromChannel: AllChannels,
		ToChannel:   AllChannels,
	}
}

func (r RoutingRule) String() string {
	return fmt.Sprintf("%s[%s] -> %s[%s]", r.From, r.FromChannel, r.To, r.ToChannel)
}
