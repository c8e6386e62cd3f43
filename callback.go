package voicemeeter

import (
	"time"
	"unsafe"

	"github.com/shaban/voicemeeter/remote"
)

// CallbackMode selects which audio stream a callback receives. Modes can be
// combined with |.
type CallbackMode int32

const (
	CallbackInput  CallbackMode = CallbackMode(remote.CallbackIn)   // input insert
	CallbackOutput CallbackMode = CallbackMode(remote.CallbackOut)  // bus output insert
	CallbackMain   CallbackMode = CallbackMode(remote.CallbackMain) // all I/O
)

// CallbackCommand is the reason the engine invoked the callback.
type CallbackCommand int32

const (
	CommandStarting   = CallbackCommand(remote.CommandStarting)
	CommandEnding     = CallbackCommand(remote.CommandEnding)
	CommandChange     = CallbackCommand(remote.CommandChange)
	CommandBufferIn   = CallbackCommand(remote.CommandBufferIn)
	CommandBufferOut  = CallbackCommand(remote.CommandBufferOut)
	CommandBufferMain = CallbackCommand(remote.CommandBufferMain)
)

// AudioInfo is delivered with CommandStarting, CommandEnding and
// CommandChange. After CommandChange the stream must be restarted.
type AudioInfo = remote.AudioInfo

// AudioBuffer is delivered with the buffer commands. It points into engine
// memory and is only valid during the callback.
type AudioBuffer struct {
	raw *remote.AudioBuffer
}

// SampleRate of the stream in Hz.
func (b AudioBuffer) SampleRate() int { return int(b.raw.SampleRate) }

// Frames is the number of samples per channel in this buffer.
func (b AudioBuffer) Frames() int { return int(b.raw.SamplesPerFrame) }

// NumInputs is the number of readable channels.
func (b AudioBuffer) NumInputs() int { return int(b.raw.Inputs) }

// NumOutputs is the number of writable channels.
func (b AudioBuffer) NumOutputs() int { return int(b.raw.Outputs) }

// Input returns channel i of the read side, or nil when out of range.
func (b AudioBuffer) Input(i int) []float32 {
	if i < 0 || i >= b.NumInputs() || i >= remote.MaxAudioChannels || b.raw.Read[i] == nil {
		return nil
	}
	return unsafe.Slice(b.raw.Read[i], b.Frames())
}

// Output returns channel i of the write side, or nil when out of range.
func (b AudioBuffer) Output(i int) []float32 {
	if i < 0 || i >= b.NumOutputs() || i >= remote.MaxAudioChannels || b.raw.Write[i] == nil {
		return nil
	}
	return unsafe.Slice(b.raw.Write[i], b.Frames())
}

// AudioHandler receives real-time audio from the engine.
//
// It runs on the engine's single time-critical thread and is never
// re-entered. Implementations must not block, wait on locks, do I/O,
// allocate without bound or call any Session method.
type AudioHandler interface {
	// Info is called for CommandStarting, CommandEnding and CommandChange.
	Info(cmd CallbackCommand, info AudioInfo)
	// Process is called for the buffer commands. For CommandBufferIn and
	// CommandBufferOut the handler must fill every output channel.
	Process(cmd CallbackCommand, buf AudioBuffer)
}

// RegisterAudioCallback claims an audio callback slot for clientName. When
// another application holds the slot the result is a *CallbackConflictError
// naming it.
func (s *Session) RegisterAudioCallback(mode CallbackMode, clientName string, h AudioHandler) error {
	name := make([]byte, remote.ClientNameLen)
	remote.CopyANSI(name, clientName)

	cb := func(command int32, data unsafe.Pointer, _ int32) int32 {
		if data == nil {
			return 0
		}
		cmd := CallbackCommand(command)
		switch cmd {
		case CommandStarting, CommandEnding, CommandChange:
			h.Info(cmd, *(*remote.AudioInfo)(data))
		case CommandBufferIn, CommandBufferOut, CommandBufferMain:
			h.Process(cmd, AudioBuffer{raw: (*remote.AudioBuffer)(data)})
		}
		return 0
	}

	start := time.Now()
	code := s.table.AudioCallbackRegister(int32(mode), cb, name)
	s.observe(opCbRegister, code, start)
	if code == 1 {
		return &CallbackConflictError{Client: remote.ANSIString(name)}
	}
	return s.translate(opCbRegister, clientName, code, registerStatus)
}

// StartAudioCallback starts delivering audio to the registered handler.
func (s *Session) StartAudioCallback() error {
	start := time.Now()
	code := s.table.AudioCallbackStart()
	return s.result(opCbStart, "", code, start, callbackStatus)
}

// StopAudioCallback stops delivering audio.
func (s *Session) StopAudioCallback() error {
	start := time.Now()
	code := s.table.AudioCallbackStop()
	return s.result(opCbStop, "", code, start, callbackStatus)
}

// UnregisterAudioCallback releases the slot, stopping the stream first if
// needed.
func (s *Session) UnregisterAudioCallback() error {
	start := time.Now()
	code := s.table.AudioCallbackUnregister()
	return s.result(opCbUnregister, "", code, start, unregisterStatus)
}
