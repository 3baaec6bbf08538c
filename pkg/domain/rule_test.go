package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefs_String(t *testing.T) {
	assert.Equal(t, "ALL", AllPorts.String())
	assert.Equal(t, "a", PortID("a").String())
	assert.Equal(t, "ALL", AllChannels.String())
	assert.Equal(t, "3", Channel(3).String())
	assert.Equal(t, "ALL[ALL] -> ALL[ALL]", DefaultRule().String())
}
