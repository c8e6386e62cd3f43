package voicemeeter

import (
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// LevelKind selects the metering point for GetLevel.
type LevelKind int32

const (
	LevelPreFader  LevelKind = 0 // input strips before the fader
	LevelPostFader LevelKind = 1 // input strips after the fader
	LevelPostMute  LevelKind = 2 // input strips after mute
	LevelOutput    LevelKind = 3 // output buses
)

func (k LevelKind) String() string {
	switch k {
	case LevelPreFader:
		return "pre_fader_input"
	case LevelPostFader:
		return "post_fader_input"
	case LevelPostMute:
		return "post_mute_input"
	case LevelOutput:
		return "output"
	default:
		return fmt.Sprintf("level_kind(%d)", int32(k))
	}
}

// ParseLevelKind accepts the names returned by LevelKind.String and the
// short forms "pre", "post", "mute" and "out".
func ParseLevelKind(s string) (LevelKind, error) {
	switch s {
	case "pre", "pre_fader_input", "0":
		return LevelPreFader, nil
	case "post", "post_fader_input", "1":
		return LevelPostFader, nil
	case "mute", "post_mute_input", "2":
		return LevelPostMute, nil
	case "out", "output", "3":
		return LevelOutput, nil
	}
	return 0, fmt.Errorf("unknown level kind %q", s)
}

// DefaultMidiBufferSize is large enough for several queued MIDI events.
const DefaultMidiBufferSize = 1024

// GetLevel reads one meter value (linear, 1.0 = 0 dBFS).
func (s *Session) GetLevel(kind LevelKind, channel int) (float32, error) {
	s.telemetryMu.Lock()
	defer s.telemetryMu.Unlock()
	return s.level(kind, channel)
}

// GetLevels reads count consecutive channels starting at first under a
// single lock acquisition. It stops at the first failure.
func (s *Session) GetLevels(kind LevelKind, first, count int) ([]float32, error) {
	if count < 0 {
		return nil, fmt.Errorf("voicemeeter: %s: count must not be negative, got %d", opLevel, count)
	}

	s.telemetryMu.Lock()
	defer s.telemetryMu.Unlock()

	out := make([]float32, count)
	for i := range out {
		v, err := s.level(kind, first+i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Session) level(kind LevelKind, channel int) (float32, error) {
	var v float32
	start := time.Now()
	code := s.table.GetLevel(int32(kind), int32(channel), &v)
	name := fmt.Sprintf("%s[%d]", kind, channel)
	if err := s.result(opLevel, name, code, start, levelStatus); err != nil {
		return 0, err
	}
	return v, nil
}

// GetMidiMessage drains the engine's MIDI input queue into a fresh buffer of
// maxBytes and returns the whole buffer. Use GetMidiEvents to get only the
// bytes the engine wrote, split into messages.
func (s *Session) GetMidiMessage(maxBytes int) ([]byte, error) {
	buf, _, err := s.readMidi(maxBytes)
	return buf, err
}

// GetMidiEvents drains the MIDI queue and splits the received bytes into
// individual messages. An empty queue yields ErrNoMidiData.
func (s *Session) GetMidiEvents(maxBytes int) ([]midi.Message, error) {
	buf, n, err := s.readMidi(maxBytes)
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		n = len(buf)
	}
	return SplitMidi(buf[:n]), nil
}

func (s *Session) readMidi(maxBytes int) ([]byte, int, error) {
	if maxBytes <= 0 {
		return nil, 0, fmt.Errorf("voicemeeter: %s: buffer size must be positive, got %d", opMidi, maxBytes)
	}

	s.telemetryMu.Lock()
	defer s.telemetryMu.Unlock()

	buf := make([]byte, maxBytes)
	start := time.Now()
	code := s.table.GetMidiMessage(buf)
	s.observe(opMidi, code, start)
	if code >= 0 {
		return buf, int(code), nil
	}
	return nil, 0, s.translate(opMidi, "", code, midiStatus)
}
