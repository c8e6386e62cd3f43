// Package remote is the raw boundary to VoicemeeterRemote.dll.
//
// CallTable mirrors the exported C functions one to one: arguments are
// primitives and caller-owned buffers, every call returns the native int32
// status untouched. Translating those codes into errors is the job of the
// parent voicemeeter package.
package remote

import "unsafe"

// Buffer sizes fixed by VoicemeeterRemote.h.
const (
	StringLen     = 512 // GetParameterStringA/W output, in chars
	DeviceNameLen = 256 // GetDeviceDescA/W name and hardware id, in chars
	ClientNameLen = 64  // AudioCallbackRegister client name, in chars
)

// AudioCallbackFunc is invoked by the engine on its real-time audio thread.
// data points at an AudioInfo or AudioBuffer depending on command.
type AudioCallbackFunc func(command int32, data unsafe.Pointer, nnn int32) int32

// CallTable is the set of native entry points exposed by the remote DLL.
// String arguments are NUL-terminated buffers produced by NewANSI or NewWide;
// output buffers are sized by the caller and filled by the engine.
type CallTable interface {
	Login() int32
	Logout() int32
	RunVoicemeeter(kind int32) int32

	GetVoicemeeterType(kind *int32) int32
	GetVoicemeeterVersion(version *int32) int32

	IsParametersDirty() int32
	GetParameterFloat(name []byte, value *float32) int32
	GetParameterStringA(name []byte, value []byte) int32
	GetParameterStringW(name []byte, value []uint16) int32

	GetLevel(kind, channel int32, value *float32) int32
	GetMidiMessage(buf []byte) int32

	SetParameterFloat(name []byte, value float32) int32
	SetParameterStringA(name []byte, value []byte) int32
	SetParameterStringW(name []byte, value []uint16) int32
	SetParameters(script []byte) int32
	SetParametersW(script []uint16) int32

	OutputGetDeviceNumber() int32
	OutputGetDeviceDescA(index int32, kind *int32, name, hardwareID []byte) int32
	OutputGetDeviceDescW(index int32, kind *int32, name, hardwareID []uint16) int32
	InputGetDeviceNumber() int32
	InputGetDeviceDescA(index int32, kind *int32, name, hardwareID []byte) int32
	InputGetDeviceDescW(index int32, kind *int32, name, hardwareID []uint16) int32

	AudioCallbackRegister(mode int32, cb AudioCallbackFunc, clientName []byte) int32
	AudioCallbackStart() int32
	AudioCallbackStop() int32
	AudioCallbackUnregister() int32
}

// Library is a CallTable backed by a loaded native module.
type Library interface {
	CallTable
	Close() error
}
