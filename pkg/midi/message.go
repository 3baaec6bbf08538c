package midi

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Message.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNoteOff
	KindNoteOn
	KindPolytouch
	KindControlChange
	KindProgramChange
	KindAftertouch
	KindPitchwheel
	KindSysEx
	KindQuarterFrame
	KindSongPos
	KindSongSelect
	KindTuneRequest
	KindClock
	KindStart
	KindContinue
	KindStop
	KindActiveSensing
	KindReset
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindNoteOff:       "note_off",
	KindNoteOn:        "note_on",
	KindPolytouch:     "polytouch",
	KindControlChange: "control_change",
	KindProgramChange: "program_change",
	KindAftertouch:    "aftertouch",
	KindPitchwheel:    "pitchwheel",
	KindSysEx:         "sysex",
	KindQuarterFrame:  "quarter_frame",
	KindSongPos:       "songpos",
	KindSongSelect:    "song_select",
	KindTuneRequest:   "tune_request",
	KindClock:         "clock",
	KindStart:         "start",
	KindContinue:      "continue",
	KindStop:          "stop",
	KindActiveSensing: "active_sensing",
	KindReset:         "reset",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Message is a single MIDI message.
// Only the fields relevant to Kind are set; the rest stay zero.
type Message struct {
	Kind Kind

	Channel  uint8 // 0-15
	Note     uint8 // 0-127
	Velocity uint8 // 0-127
	Control  uint8 // 0-127
	Value    uint8 // 0-127
	Program  uint8 // 0-127
	Pitch    int16 // -8192..8191

	FrameType  uint8  // 0-7
	FrameValue uint8  // 0-15
	Pos        uint16 // 0-16383
	Song       uint8  // 0-127

	// Data is the sysex payload, without the 0xF0/0xF7 framing.
	Data []byte
}

// HasChannel reports whether the message is a channel voice message.
func (m Message) HasChannel() bool {
	switch m.Kind {
	case KindNoteOff, KindNoteOn, KindPolytouch, KindControlChange,
		KindProgramChange, KindAftertouch, KindPitchwheel:
		return true
	case KindSysEx, KindQuarterFrame, KindSongPos, KindSongSelect, KindTuneRequest,
		KindClock, KindStart, KindContinue, KindStop, KindActiveSensing, KindReset:
		return false
	default:
		return false
	}
}

// ChannelOf returns the channel and true for channel voice messages.
func (m Message) ChannelOf() (uint8, bool) {
	if !m.HasChannel() {
		return 0, false
	}
	return m.Channel, true
}

// WithChannel returns a copy of m moved to channel ch.
// Messages without a channel are returned unchanged.
func (m Message) WithChannel(ch uint8) Message {
	if !m.HasChannel() {
		return m
	}
	m.Channel = ch & 0x0F
	return m
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	if m.Data != nil {
		m.Data = append([]byte(nil), m.Data...)
	}
	return m
}

// String renders the message as "kind field=value ...".
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(m.Kind.String())
	field := func(name string, v any) {
		fmt.Fprintf(&b, " %s=%v", name, v)
	}
	switch m.Kind {
	case KindNoteOff, KindNoteOn:
		field("channel", m.Channel)
		field("note", m.Note)
		field("velocity", m.Velocity)
	case KindPolytouch:
		field("channel", m.Channel)
		field("note", m.Note)
		field("value", m.Value)
	case KindControlChange:
		field("channel", m.Channel)
		field("control", m.Control)
		field("value", m.Value)
	case KindProgramChange:
		field("channel", m.Channel)
		field("program", m.Program)
	case KindAftertouch:
		field("channel", m.Channel)
		field("value", m.Value)
	case KindPitchwheel:
		field("channel", m.Channel)
		field("pitch", m.Pitch)
	case KindSysEx:
		fmt.Fprintf(&b, " data=% X", m.Data)
	case KindQuarterFrame:
		field("frame_type", m.FrameType)
		field("frame_value", m.FrameValue)
	case KindSongPos:
		field("pos", m.Pos)
	case KindSongSelect:
		field("song", m.Song)
	case KindTuneRequest, KindClock, KindStart, KindContinue, KindStop, KindActiveSensing, KindReset, KindInvalid:
	}
	return b.String()
}

// NoteOn builds a note_on message.
func NoteOn(ch, note, velocity uint8) Message {
	return Message{Kind: KindNoteOn, Channel: ch & 0x0F, Note: note & 0x7F, Velocity: velocity & 0x7F}
}

// NoteOff builds a note_off message.
func NoteOff(ch, note, velocity uint8) Message {
	return Message{Kind: KindNoteOff, Channel: ch & 0x0F, Note: note & 0x7F, Velocity: velocity & 0x7F}
}

// Polytouch builds a polyphonic aftertouch message.
func Polytouch(ch, note, value uint8) Message {
	return Message{Kind: KindPolytouch, Channel: ch & 0x0F, Note: note & 0x7F, Value: value & 0x7F}
}

// ControlChange builds a control_change message.
func ControlChange(ch, control, value uint8) Message {
	return Message{Kind: KindControlChange, Channel: ch & 0x0F, Control: control & 0x7F, Value: value & 0x7F}
}

// ProgramChange builds a program_change message.
func ProgramChange(ch, program uint8) Message {
	return Message{Kind: KindProgramChange, Channel: ch & 0x0F, Program: program & 0x7F}
}

// Aftertouch builds a channel pressure message.
func Aftertouch(ch, value uint8) Message {
	return Message{Kind: KindAftertouch, Channel: ch & 0x0F, Value: value & 0x7F}
}

// Pitchwheel builds a pitch bend message. pitch is clamped to -8192..8191.
func Pitchwheel(ch uint8, pitch int16) Message {
	if pitch < -8192 {
		pitch = -8192
	}
	if pitch > 8191 {
		pitch = 8191
	}
	return Message{Kind: KindPitchwheel, Channel: ch & 0x0F, Pitch: pitch}
}

// SysEx builds a system exclusive message from its payload.
func SysEx(data ...byte) Message {
	return Message{Kind: KindSysEx, Data: append([]byte(nil), data...)}
}

// QuarterFrame builds an MTC quarter frame message.
func QuarterFrame(frameType, frameValue uint8) Message {
	return Message{Kind: KindQuarterFrame, FrameType: frameType & 0x07, FrameValue: frameValue & 0x0F}
}

// SongPos builds a song position pointer message.
func SongPos(pos uint16) Message {
	return Message{Kind: KindSongPos, Pos: pos & 0x3FFF}
}

// SongSelect builds a song select message.
func SongSelect(song uint8) Message {
	return Message{Kind: KindSongSelect, Song: song & 0x7F}
}

// Realtime and single byte system messages.
func TuneRequest() Message   { return Message{Kind: KindTuneRequest} }
func Clock() Message         { return Message{Kind: KindClock} }
func Start() Message         { return Message{Kind: KindStart} }
func Continue() Message      { return Message{Kind: KindContinue} }
func Stop() Message          { return Message{Kind: KindStop} }
func ActiveSensing() Message { return Message{Kind: KindActiveSensing} }
func Reset() Message         { return Message{Kind: KindReset} }
