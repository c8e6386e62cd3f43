package testutil

import (
	"sync"

	"github.com/shaban/voicemeeter/remote"
)

// FakeDevice is one entry of the fake's device lists.
type FakeDevice struct {
	Type       int32
	Name       string
	HardwareID string
}

// LevelKey addresses one meter in FakeTable.Levels.
type LevelKey struct {
	Kind    int32
	Channel int32
}

// FakeTable is an in-memory remote.CallTable. By default every call succeeds
// and reads come from the exported maps. Status overrides the return code of
// a call, keyed by method name (e.g. "GetParameterFloat"); a call with an
// override other than 0 writes nothing.
//
// All methods are safe for concurrent use. Exported fields must be set
// before the fake is shared or under Lock.
type FakeTable struct {
	mu sync.Mutex

	Status map[string]int32

	Type    int32
	Version int32

	Floats  map[string]float32
	Strings map[string]string
	Levels  map[LevelKey]float32
	Midi    []byte

	Inputs  []FakeDevice
	Outputs []FakeDevice

	// Scripts records every script submitted through SetParameters(W).
	Scripts []string

	// CallbackHolder is reported as the slot owner when
	// AudioCallbackRegister is overridden to return 1.
	CallbackHolder string
	Callback       remote.AudioCallbackFunc
	CallbackMode   int32
	CallbackClient string

	Closed bool

	dirty bool
	calls map[string]int
}

var _ remote.Library = (*FakeTable)(nil)

// NewFakeTable returns a fake of a running Voicemeeter Banana 2.1.0.5 with
// no parameters and no devices.
func NewFakeTable() *FakeTable {
	return &FakeTable{
		Status:  map[string]int32{},
		Type:    2,
		Version: 2<<24 | 1<<16 | 0<<8 | 5,
		Floats:  map[string]float32{},
		Strings: map[string]string{},
		Levels:  map[LevelKey]float32{},
		calls:   map[string]int{},
	}
}

// Lock and Unlock guard the exported fields while the fake is in use.
func (f *FakeTable) Lock() { f.mu.Lock() }
func (f *FakeTable) Unlock() { f.mu.Unlock() }

// SetStatus overrides the return code of method.
func (f *FakeTable) SetStatus(method string, code int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Status[method] = code
}

// ClearStatus removes an override set with SetStatus.
func (f *FakeTable) ClearStatus(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Status, method)
}

// MarkDirty makes the next IsParametersDirty report a change.
func (f *FakeTable) MarkDirty() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = true
}

// SetFloat stores a value without going through the call table and marks
// the fake dirty, the way an edit in the Voicemeeter UI would.
func (f *FakeTable) SetFloat(name string, v float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Floats[name] = v
	f.dirty = true
}

// SetDevices replaces the device lists.
func (f *FakeTable) SetDevices(inputs, outputs []FakeDevice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Inputs = inputs
	f.Outputs = outputs
}

// Calls reports how many times method was invoked.
func (f *FakeTable) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// enter records the call and returns its override, if any. It must be called
// with f.mu held.
func (f *FakeTable) enter(method string) (int32, bool) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
	code, ok := f.Status[method]
	return code, ok
}

func (f *FakeTable) simple(method string) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, _ := f.enter(method)
	return code
}

func (f *FakeTable) Login() int32 { return f.simple("Login") }
func (f *FakeTable) Logout() int32 { return f.simple("Logout") }
func (f *FakeTable) RunVoicemeeter(int32) int32 { return f.simple("RunVoicemeeter") }
func (f *FakeTable) AudioCallbackStart() int32 { return f.simple("AudioCallbackStart") }
func (f *FakeTable) AudioCallbackStop() int32 { return f.simple("AudioCallbackStop") }

func (f *FakeTable) GetVoicemeeterType(kind *int32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("GetVoicemeeterType"); ok && code != 0 {
		return code
	}
	*kind = f.Type
	return 0
}

func (f *FakeTable) GetVoicemeeterVersion(version *int32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("GetVoicemeeterVersion"); ok && code != 0 {
		return code
	}
	*version = f.Version
	return 0
}

func (f *FakeTable) IsParametersDirty() int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("IsParametersDirty"); ok {
		return code
	}
	if f.dirty {
		f.dirty = false
		return 1
	}
	return 0
}

func (f *FakeTable) GetParameterFloat(name []byte, value *float32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("GetParameterFloat"); ok && code != 0 {
		return code
	}
	v, ok := f.Floats[remote.ANSIString(name)]
	if !ok {
		return -3
	}
	*value = v
	return 0
}

func (f *FakeTable) GetParameterStringA(name []byte, value []byte) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("GetParameterStringA"); ok && code != 0 {
		return code
	}
	v, ok := f.Strings[remote.ANSIString(name)]
	if !ok {
		return -3
	}
	remote.CopyANSI(value, v)
	return 0
}

func (f *FakeTable) GetParameterStringW(name []byte, value []uint16) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("GetParameterStringW"); ok && code != 0 {
		return code
	}
	v, ok := f.Strings[remote.ANSIString(name)]
	if !ok {
		return -3
	}
	remote.CopyWide(value, v)
	return 0
}

// GetLevel reports -4 for meters missing from Levels.
func (f *FakeTable) GetLevel(kind, channel int32, value *float32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("GetLevel"); ok && code != 0 {
		return code
	}
	v, ok := f.Levels[LevelKey{Kind: kind, Channel: channel}]
	if !ok {
		return -4
	}
	*value = v
	return 0
}

// GetMidiMessage copies Midi into buf and drains it. With an override the
// copy still happens and the override is returned; without one the result
// is the number of bytes copied, or -5 when Midi is empty.
func (f *FakeTable) GetMidiMessage(buf []byte) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.enter("GetMidiMessage")
	n := copy(buf, f.Midi)
	f.Midi = f.Midi[n:]
	if ok {
		return code
	}
	if n == 0 {
		return -5
	}
	return int32(n)
}

func (f *FakeTable) SetParameterFloat(name []byte, value float32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("SetParameterFloat"); ok && code != 0 {
		return code
	}
	f.Floats[remote.ANSIString(name)] = value
	f.dirty = true
	return 0
}

func (f *FakeTable) SetParameterStringA(name []byte, value []byte) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("SetParameterStringA"); ok && code != 0 {
		return code
	}
	f.Strings[remote.ANSIString(name)] = remote.ANSIString(value)
	f.dirty = true
	return 0
}

func (f *FakeTable) SetParameterStringW(name []byte, value []uint16) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("SetParameterStringW"); ok && code != 0 {
		return code
	}
	f.Strings[remote.ANSIString(name)] = remote.WideString(value)
	f.dirty = true
	return 0
}

// SetParameters only records the script; it does not interpret it.
func (f *FakeTable) SetParameters(script []byte) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, _ := f.enter("SetParameters")
	if code == 0 {
		f.Scripts = append(f.Scripts, remote.ANSIString(script))
	}
	return code
}

func (f *FakeTable) SetParametersW(script []uint16) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, _ := f.enter("SetParametersW")
	if code == 0 {
		f.Scripts = append(f.Scripts, remote.WideString(script))
	}
	return code
}

func (f *FakeTable) OutputGetDeviceNumber() int32 {
	return f.deviceNumber("OutputGetDeviceNumber", &f.Outputs)
}

func (f *FakeTable) InputGetDeviceNumber() int32 {
	return f.deviceNumber("InputGetDeviceNumber", &f.Inputs)
}

func (f *FakeTable) deviceNumber(method string, list *[]FakeDevice) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter(method); ok {
		return code
	}
	return int32(len(*list))
}

func (f *FakeTable) OutputGetDeviceDescA(index int32, kind *int32, name, hardwareID []byte) int32 {
	return f.deviceDescA("OutputGetDeviceDescA", &f.Outputs, index, kind, name, hardwareID)
}

func (f *FakeTable) InputGetDeviceDescA(index int32, kind *int32, name, hardwareID []byte) int32 {
	return f.deviceDescA("InputGetDeviceDescA", &f.Inputs, index, kind, name, hardwareID)
}

func (f *FakeTable) OutputGetDeviceDescW(index int32, kind *int32, name, hardwareID []uint16) int32 {
	return f.deviceDescW("OutputGetDeviceDescW", &f.Outputs, index, kind, name, hardwareID)
}

func (f *FakeTable) InputGetDeviceDescW(index int32, kind *int32, name, hardwareID []uint16) int32 {
	return f.deviceDescW("InputGetDeviceDescW", &f.Inputs, index, kind, name, hardwareID)
}

func (f *FakeTable) deviceDescA(method string, list *[]FakeDevice, index int32, kind *int32, name, hardwareID []byte) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter(method); ok && code != 0 {
		return code
	}
	if index < 0 || int(index) >= len(*list) {
		return -1
	}
	d := (*list)[index]
	*kind = d.Type
	remote.CopyANSI(name, d.Name)
	remote.CopyANSI(hardwareID, d.HardwareID)
	return 0
}

func (f *FakeTable) deviceDescW(method string, list *[]FakeDevice, index int32, kind *int32, name, hardwareID []uint16) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter(method); ok && code != 0 {
		return code
	}
	if index < 0 || int(index) >= len(*list) {
		return -1
	}
	d := (*list)[index]
	*kind = d.Type
	remote.CopyWide(name, d.Name)
	remote.CopyWide(hardwareID, d.HardwareID)
	return 0
}

// AudioCallbackRegister stores cb for Fire. An override of 1 writes
// CallbackHolder into clientName, as the engine does.
func (f *FakeTable) AudioCallbackRegister(mode int32, cb remote.AudioCallbackFunc, clientName []byte) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.enter("AudioCallbackRegister"); ok && code != 0 {
		if code == 1 {
			remote.CopyANSI(clientName, f.CallbackHolder)
		}
		return code
	}
	f.Callback = cb
	f.CallbackMode = mode
	f.CallbackClient = remote.ANSIString(clientName)
	return 0
}

func (f *FakeTable) AudioCallbackUnregister() int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, _ := f.enter("AudioCallbackUnregister")
	if code == 0 {
		f.Callback = nil
		f.CallbackClient = ""
	}
	return code
}

// Close implements remote.Library.
func (f *FakeTable) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
