//go:build !nomididriver

package main

// Registers the rtmidi backend (ALSA, CoreMIDI, WinMM) with the gomidi driver registry.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
