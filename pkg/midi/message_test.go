package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_HasChannel(t *testing.T) {
	channelKinds := []Message{
		NoteOn(1, 60, 100), NoteOff(1, 60, 0), Polytouch(1, 60, 3),
		ControlChange(1, 7, 127), ProgramChange(1, 4), Aftertouch(1, 9), Pitchwheel(1, 100),
	}
	for _, m := range channelKinds {
		assert.True(t, m.HasChannel(), m.Kind.String())
	}

	systemKinds := []Message{
		SysEx(0x7E, 0x01), QuarterFrame(1, 2), SongPos(3), SongSelect(4), TuneRequest(),
		Clock(), Start(), Continue(), Stop(), ActiveSensing(), Reset(),
	}
	for _, m := range systemKinds {
		assert.False(t, m.HasChannel(), m.Kind.String())
		_, ok := m.ChannelOf()
		assert.False(t, ok)
	}
}

func TestMessage_WithChannel(t *testing.T) {
	m := NoteOn(5, 60, 64)
	moved := m.WithChannel(2)

	assert.Equal(t, uint8(2), moved.Channel)
	assert.Equal(t, uint8(5), m.Channel, "original must be untouched")
	assert.Equal(t, m.Note, moved.Note)

	clock := Clock()
	assert.Equal(t, clock, clock.WithChannel(9))
}

func TestMessage_String(t *testing.T) {
	assert.Equal(t, "note_on channel=5 note=60 velocity=64", NoteOn(5, 60, 64).String())
	assert.Equal(t, "clock", Clock().String())
	assert.Equal(t, "pitchwheel channel=0 pitch=-8192", Pitchwheel(0, -9000).String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}

func TestDecode_RoundTrip(t *testing.T) {
	msgs := []Message{
		NoteOn(5, 60, 64),
		NoteOff(15, 0, 127),
		Polytouch(3, 64, 10),
		ControlChange(0, 7, 100),
		ProgramChange(9, 42),
		Aftertouch(2, 80),
		Pitchwheel(1, -8192),
		Pitchwheel(1, 0),
		Pitchwheel(1, 8191),
		SysEx(0x7E, 0x7F, 0x06, 0x01),
		QuarterFrame(7, 15),
		SongPos(16383),
		SongSelect(12),
		TuneRequest(), Clock(), Start(), Continue(), Stop(), ActiveSensing(), Reset(),
	}
	for _, m := range msgs {
		t.Run(m.String(), func(t *testing.T) {
			got, err := Decode(m.Bytes())
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string][]byte{
		"empty":          {},
		"data first":     {0x3C, 0x40},
		"short note":     {0x90, 0x3C},
		"bad data byte":  {0x90, 0x3C, 0x90},
		"unterminated":   {0xF0, 0x01, 0x02},
		"undefined 0xF4": {0xF4},
		"short song pos": {0xF2, 0x01},
		"short program":  {0xC0},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestClone_CopiesSysExData(t *testing.T) {
	m := SysEx(1, 2, 3)
	c := m.Clone()
	c.Data[0] = 9
	assert.Equal(t, byte(1), m.Data[0])
}

func TestBytes_WireLayout(t *testing.T) {
	cases := []struct {
		msg  Message
		want []byte
	}{
		{NoteOn(2, 60, 100), []byte{0x92, 0x3C, 0x64}},
		{NoteOff(0, 60, 64), []byte{0x80, 0x3C, 0x40}},
		{ControlChange(15, 7, 127), []byte{0xBF, 0x07, 0x7F}},
		{ProgramChange(9, 42), []byte{0xC9, 0x2A}},
		{Pitchwheel(0, 0), []byte{0xE0, 0x00, 0x40}},
		{SysEx(0x7E, 0x01), []byte{0xF0, 0x7E, 0x01, 0xF7}},
		{QuarterFrame(3, 5), []byte{0xF1, 0x35}},
		{SongPos(128), []byte{0xF2, 0x00, 0x01}},
		{Clock(), []byte{0xF8}},
		{ActiveSensing(), []byte{0xFE}},
	}
	for _, tc := range cases {
		t.Run(tc.msg.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.msg.Bytes())
		})
	}
	assert.Nil(t, Message{}.Bytes())
}

func TestDecode_NoteOnZeroVelocityKeepsKind(t *testing.T) {
	got, err := Decode([]byte{0x93, 0x3C, 0x00})
	require.NoError(t, err)
	assert.Equal(t, NoteOn(3, 60, 0), got)
}
