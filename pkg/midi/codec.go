package midi

import (
	"errors"
	"fmt"

	gm "gitlab.com/gomidi/midi/v2"
)

// ErrMalformed is returned by Decode for byte sequences that are not a complete message.
var ErrMalformed = errors.New("malformed midi message")

// wireSize is the encoded length of every fixed size message Decode accepts.
var wireSize = map[gm.Type]int{
	gm.NoteOffMsg:        3,
	gm.NoteOnMsg:         3,
	gm.PolyAfterTouchMsg: 3,
	gm.ControlChangeMsg:  3,
	gm.ProgramChangeMsg:  2,
	gm.AfterTouchMsg:     2,
	gm.PitchBendMsg:      3,
	gm.MTCMsg:            2,
	gm.SPPMsg:            3,
	gm.SongSelectMsg:     2,
	gm.TuneMsg:           1,
	gm.TimingClockMsg:    1,
	gm.StartMsg:          1,
	gm.ContinueMsg:       1,
	gm.StopMsg:           1,
	gm.ActiveSenseMsg:    1,
	gm.ResetMsg:          1,
}

// Decode parses one complete MIDI message (running status is not supported).
func Decode(b []byte) (Message, error) {
	if len(b) == 0 {
		return Message{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	if b[0] < 0x80 {
		return Message{}, fmt.Errorf("%w: missing status byte 0x%02X", ErrMalformed, b[0])
	}

	raw := gm.Message(b)
	t := raw.Type()

	if t == gm.SysExMsg {
		if len(b) < 2 || b[len(b)-1] != 0xF7 {
			return Message{}, fmt.Errorf("%w: unterminated sysex", ErrMalformed)
		}
		var data []byte
		raw.GetSysEx(&data)
		return SysEx(data...), nil
	}

	size, ok := wireSize[t]
	if !ok {
		return Message{}, fmt.Errorf("%w: unsupported status 0x%02X", ErrMalformed, b[0])
	}
	if len(b) < size {
		return Message{}, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrMalformed, t, size, len(b))
	}
	for _, v := range b[1:size] {
		if v > 0x7F {
			return Message{}, fmt.Errorf("%w: data byte 0x%02X out of range", ErrMalformed, v)
		}
	}
	raw = raw[:size]

	var ch, a, v uint8
	switch t {
	case gm.NoteOffMsg:
		raw.GetNoteOff(&ch, &a, &v)
		return NoteOff(ch, a, v), nil
	case gm.NoteOnMsg:
		raw.GetNoteOn(&ch, &a, &v)
		return NoteOn(ch, a, v), nil
	case gm.PolyAfterTouchMsg:
		raw.GetPolyAfterTouch(&ch, &a, &v)
		return Polytouch(ch, a, v), nil
	case gm.ControlChangeMsg:
		raw.GetControlChange(&ch, &a, &v)
		return ControlChange(ch, a, v), nil
	case gm.ProgramChangeMsg:
		raw.GetProgramChange(&ch, &a)
		return ProgramChange(ch, a), nil
	case gm.AfterTouchMsg:
		raw.GetAfterTouch(&ch, &v)
		return Aftertouch(ch, v), nil
	case gm.PitchBendMsg:
		var rel int16
		raw.GetPitchBend(&ch, &rel, nil)
		return Pitchwheel(ch, rel), nil
	case gm.MTCMsg:
		return QuarterFrame(raw[1]>>4, raw[1]&0x0F), nil
	case gm.SPPMsg:
		var pos uint16
		raw.GetSPP(&pos)
		return SongPos(pos), nil
	case gm.SongSelectMsg:
		raw.GetSongSelect(&a)
		return SongSelect(a), nil
	case gm.TuneMsg:
		return TuneRequest(), nil
	case gm.TimingClockMsg:
		return Clock(), nil
	case gm.StartMsg:
		return Start(), nil
	case gm.ContinueMsg:
		return Continue(), nil
	case gm.StopMsg:
		return Stop(), nil
	case gm.ActiveSenseMsg:
		return ActiveSensing(), nil
	case gm.ResetMsg:
		return Reset(), nil
	}
	return Message{}, fmt.Errorf("%w: unsupported status 0x%02X", ErrMalformed, b[0])
}

// Bytes encodes the message in MIDI 1.0 wire format.
// An invalid message encodes to nil.
func (m Message) Bytes() []byte {
	ch := m.Channel & 0x0F
	switch m.Kind {
	case KindNoteOff:
		return gm.NoteOffVelocity(ch, m.Note, m.Velocity)
	case KindNoteOn:
		return gm.NoteOn(ch, m.Note, m.Velocity)
	case KindPolytouch:
		return gm.PolyAfterTouch(ch, m.Note, m.Value)
	case KindControlChange:
		return gm.ControlChange(ch, m.Control, m.Value)
	case KindProgramChange:
		return gm.ProgramChange(ch, m.Program)
	case KindAftertouch:
		return gm.AfterTouch(ch, m.Value)
	case KindPitchwheel:
		return gm.Pitchbend(ch, m.Pitch)
	case KindSysEx:
		return gm.SysEx(m.Data)
	case KindQuarterFrame:
		return gm.MTC(m.FrameType<<4 | m.FrameValue&0x0F)
	case KindSongPos:
		return gm.SPP(m.Pos)
	case KindSongSelect:
		return gm.SongSelect(m.Song)
	case KindTuneRequest:
		return gm.Tune()
	case KindClock:
		return gm.TimingClock()
	case KindStart:
		return gm.Start()
	case KindContinue:
		return gm.Continue()
	case KindStop:
		return gm.Stop()
	case KindActiveSensing:
		return gm.Activesense()
	case KindReset:
		return gm.Reset()
	case KindInvalid:
	}
	return nil
}
