package voicemeeter

import "gitlab.com/gomidi/midi/v2"

// SplitMidi splits a raw MIDI byte stream, as delivered by the engine, into
// messages. Running status is expanded so every returned message starts with
// its status byte. A message cut off at the end of b is dropped.
func SplitMidi(b []byte) []midi.Message {
	var (
		out     []midi.Message
		running byte
	)
	for i := 0; i < len(b); {
		status := b[i]
		start := i
		if status < 0x80 {
			// data byte: reuse running status
			if running == 0 {
				i++
				continue
			}
			status = running
			n := midiLen(status) - 1
			if i+n > len(b) {
				break
			}
			msg := make(midi.Message, 0, n+1)
			msg = append(msg, status)
			msg = append(msg, b[i:i+n]...)
			out = append(out, msg)
			i += n
			continue
		}

		if status == 0xF0 {
			end := i + 1
			for end < len(b) && b[end] != 0xF7 {
				end++
			}
			if end >= len(b) {
				break
			}
			out = append(out, midi.Message(append([]byte(nil), b[start:end+1]...)))
			i = end + 1
			running = 0
			continue
		}

		n := midiLen(status)
		if i+n > len(b) {
			break
		}
		out = append(out, midi.Message(append([]byte(nil), b[i:i+n]...)))
		i += n
		switch {
		case status < 0xF0:
			running = status
		case status < 0xF8:
			// system common cancels running status; realtime does not
			running = 0
		}
	}
	return out
}

// midiLen is the full length, status byte included, of a non-sysex message.
func midiLen(status byte) int {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 3
	case 0xC0, 0xD0:
		return 2
	}
	switch status {
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	}
	return 1
}
