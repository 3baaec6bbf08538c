/*
Package midi defines the closed set of MIDI messages routed by midiroute.

A Message is a tagged variant: Kind selects which fields are meaningful.
Channel access and channel rewriting switch exhaustively over Kind, so
adding a kind forces every switch to be revisited.

Decode and Message.Bytes convert between messages and the MIDI 1.0 wire
format used by port drivers. Both go through the gomidi message helpers
(gitlab.com/gomidi/midi/v2), so the wire layout follows that library.
*/
package midi
