//go:build windows

package remote

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Exported symbol names, in CallTable order.
var procNames = []string{
	"VBVMR_Login",
	"VBVMR_Logout",
	"VBVMR_RunVoicemeeter",
	"VBVMR_GetVoicemeeterType",
	"VBVMR_GetVoicemeeterVersion",
	"VBVMR_IsParametersDirty",
	"VBVMR_GetParameterFloat",
	"VBVMR_GetParameterStringA",
	"VBVMR_GetParameterStringW",
	"VBVMR_GetLevel",
	"VBVMR_GetMidiMessage",
	"VBVMR_SetParameterFloat",
	"VBVMR_SetParameterStringA",
	"VBVMR_SetParameterStringW",
	"VBVMR_SetParameters",
	"VBVMR_SetParametersW",
	"VBVMR_Output_GetDeviceNumber",
	"VBVMR_Output_GetDeviceDescA",
	"VBVMR_Output_GetDeviceDescW",
	"VBVMR_Input_GetDeviceNumber",
	"VBVMR_Input_GetDeviceDescA",
	"VBVMR_Input_GetDeviceDescW",
	"VBVMR_AudioCallbackRegister",
	"VBVMR_AudioCallbackStart",
	"VBVMR_AudioCallbackStop",
	"VBVMR_AudioCallbackUnregister",
}

// DLL is a CallTable bound to a loaded VoicemeeterRemote module.
type DLL struct {
	dll   *windows.DLL
	procs map[string]*windows.Proc
}

// Load loads the remote DLL at path and resolves every entry point. An empty
// path resolves through DefaultPath.
func Load(path string) (*DLL, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	d := &DLL{dll: dll, procs: make(map[string]*windows.Proc, len(procNames))}
	for _, name := range procNames {
		proc, err := dll.FindProc(name)
		if err != nil {
			dll.Release()
			return nil, fmt.Errorf("resolve %s in %s: %w", name, path, err)
		}
		d.procs[name] = proc
	}
	return d, nil
}

// Open is Load behind the platform-neutral Library interface.
func Open(path string) (Library, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Close releases the module. The CallTable must not be used afterwards.
func (d *DLL) Close() error {
	if d == nil || d.dll == nil {
		return nil
	}
	err := d.dll.Release()
	d.dll = nil
	return err
}

// call keeps pointer arguments converted at the call site alive until the
// native function returns.
//
//go:uintptrescapes
func (d *DLL) call(name string, args ...uintptr) int32 {
	r1, _, _ := d.procs[name].Call(args...)
	return int32(r1)
}

func (d *DLL) Login() int32 { return d.call("VBVMR_Login") }
func (d *DLL) Logout() int32 { return d.call("VBVMR_Logout") }

func (d *DLL) RunVoicemeeter(kind int32) int32 {
	return d.call("VBVMR_RunVoicemeeter", uintptr(kind))
}

func (d *DLL) GetVoicemeeterType(kind *int32) int32 {
	return d.call("VBVMR_GetVoicemeeterType", uintptr(unsafe.Pointer(kind)))
}

func (d *DLL) GetVoicemeeterVersion(version *int32) int32 {
	return d.call("VBVMR_GetVoicemeeterVersion", uintptr(unsafe.Pointer(version)))
}

func (d *DLL) IsParametersDirty() int32 { return d.call("VBVMR_IsParametersDirty") }

func (d *DLL) GetParameterFloat(name []byte, value *float32) int32 {
	return d.call("VBVMR_GetParameterFloat",
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(value)))
}

func (d *DLL) GetParameterStringA(name []byte, value []byte) int32 {
	return d.call("VBVMR_GetParameterStringA",
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&value[0])))
}

func (d *DLL) GetParameterStringW(name []byte, value []uint16) int32 {
	return d.call("VBVMR_GetParameterStringW",
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&value[0])))
}

func (d *DLL) GetLevel(kind, channel int32, value *float32) int32 {
	return d.call("VBVMR_GetLevel",
		uintptr(kind), uintptr(channel), uintptr(unsafe.Pointer(value)))
}

func (d *DLL) GetMidiMessage(buf []byte) int32 {
	if len(buf) == 0 {
		return d.call("VBVMR_GetMidiMessage", 0, 0)
	}
	return d.call("VBVMR_GetMidiMessage",
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
}

// SetParameterFloat passes value by bits; the syscall trampoline mirrors the
// integer argument registers into XMM, which is where the callee reads floats.
func (d *DLL) SetParameterFloat(name []byte, value float32) int32 {
	return d.call("VBVMR_SetParameterFloat",
		uintptr(unsafe.Pointer(&name[0])), uintptr(math.Float32bits(value)))
}

func (d *DLL) SetParameterStringA(name []byte, value []byte) int32 {
	return d.call("VBVMR_SetParameterStringA",
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&value[0])))
}

func (d *DLL) SetParameterStringW(name []byte, value []uint16) int32 {
	return d.call("VBVMR_SetParameterStringW",
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&value[0])))
}

func (d *DLL) SetParameters(script []byte) int32 {
	return d.call("VBVMR_SetParameters", uintptr(unsafe.Pointer(&script[0])))
}

func (d *DLL) SetParametersW(script []uint16) int32 {
	return d.call("VBVMR_SetParametersW", uintptr(unsafe.Pointer(&script[0])))
}

func (d *DLL) OutputGetDeviceNumber() int32 { return d.call("VBVMR_Output_GetDeviceNumber") }
func (d *DLL) InputGetDeviceNumber() int32 { return d.call("VBVMR_Input_GetDeviceNumber") }

func (d *DLL) OutputGetDeviceDescA(index int32, kind *int32, name, hardwareID []byte) int32 {
	return d.call("VBVMR_Output_GetDeviceDescA", uintptr(index), uintptr(unsafe.Pointer(kind)),
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&hardwareID[0])))
}

func (d *DLL) OutputGetDeviceDescW(index int32, kind *int32, name, hardwareID []uint16) int32 {
	return d.call("VBVMR_Output_GetDeviceDescW", uintptr(index), uintptr(unsafe.Pointer(kind)),
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&hardwareID[0])))
}

func (d *DLL) InputGetDeviceDescA(index int32, kind *int32, name, hardwareID []byte) int32 {
	return d.call("VBVMR_Input_GetDeviceDescA", uintptr(index), uintptr(unsafe.Pointer(kind)),
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&hardwareID[0])))
}

func (d *DLL) InputGetDeviceDescW(index int32, kind *int32, name, hardwareID []uint16) int32 {
	return d.call("VBVMR_Input_GetDeviceDescW", uintptr(index), uintptr(unsafe.Pointer(kind)),
		uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&hardwareID[0])))
}

// windows.NewCallback slots are never freed, so one trampoline is created per
// process and forwards to whichever function is currently registered.
var (
	trampolineOnce sync.Once
	trampoline     uintptr
	activeCallback atomic.Pointer[AudioCallbackFunc]
)

func audioTrampoline(user, command, data, nnn uintptr) uintptr {
	cb := activeCallback.Load()
	if cb == nil {
		return 0
	}
	return uintptr((*cb)(int32(command), unsafe.Pointer(data), int32(nnn)))
}

func (d *DLL) AudioCallbackRegister(mode int32, cb AudioCallbackFunc, clientName []byte) int32 {
	trampolineOnce.Do(func() {
		trampoline = windows.NewCallback(audioTrampoline)
	})
	activeCallback.Store(&cb)
	status := d.call("VBVMR_AudioCallbackRegister", uintptr(mode), trampoline, 0,
		uintptr(unsafe.Pointer(&clientName[0])))
	if status != 0 {
		activeCallback.Store(nil)
	}
	return status
}

func (d *DLL) AudioCallbackStart() int32 { return d.call("VBVMR_AudioCallbackStart") }
func (d *DLL) AudioCallbackStop() int32 { return d.call("VBVMR_AudioCallbackStop") }

func (d *DLL) AudioCallbackUnregister() int32 {
	status := d.call("VBVMR_AudioCallbackUnregister")
	if status == 0 {
		activeCallback.Store(nil)
	}
	return status
}

var _ Library = (*DLL)(nil)
