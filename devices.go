package voicemeeter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shaban/voicemeeter/remote"
)

// Direction selects input or output devices.
type Direction int

const (
	DeviceInput Direction = iota
	DeviceOutput
)

func (d Direction) String() string {
	if d == DeviceInput {
		return "input"
	}
	return "output"
}

// DeviceType is the driver model of an audio device.
type DeviceType int32

const (
	MME  DeviceType = 1
	WDM  DeviceType = 3
	KS   DeviceType = 4
	ASIO DeviceType = 5
)

func (t DeviceType) String() string {
	switch t {
	case MME:
		return "MME"
	case WDM:
		return "WDM"
	case KS:
		return "KS"
	case ASIO:
		return "ASIO"
	default:
		return fmt.Sprintf("devtype(%d)", int32(t))
	}
}

// Device describes one audio device as reported by the engine.
type Device struct {
	Direction  Direction  `json:"direction"`
	Index      int        `json:"index"`
	Type       DeviceType `json:"type"`
	Name       string     `json:"name"`
	HardwareID string     `json:"hardwareId"`
}

// Devices represents a slice of Device with filter methods
type Devices []Device

// ByType returns only devices of the given driver model
func (devices Devices) ByType(t DeviceType) Devices {
	var filtered Devices
	for _, device := range devices {
		if device.Type == t {
			filtered = append(filtered, device)
		}
	}
	return filtered
}

// ByName returns devices whose name contains substr, ignoring case
func (devices Devices) ByName(substr string) Devices {
	var filtered Devices
	needle := strings.ToLower(substr)
	for _, device := range devices {
		if strings.Contains(strings.ToLower(device.Name), needle) {
			filtered = append(filtered, device)
		}
	}
	return filtered
}

// ByHardwareID returns the device with the given hardware id, or nil
func (devices Devices) ByHardwareID(id string) *Device {
	for i := range devices {
		if devices[i].HardwareID == id {
			return &devices[i]
		}
	}
	return nil
}

// DeviceCount reports how many devices exist in the given direction.
func (s *Session) DeviceCount(dir Direction) (int, error) {
	start := time.Now()
	var n int32
	if dir == DeviceInput {
		n = s.table.InputGetDeviceNumber()
	} else {
		n = s.table.OutputGetDeviceNumber()
	}
	s.observe(opDeviceNumber, n, start)
	if n < 0 {
		return 0, s.translate(opDeviceNumber, dir.String(), n, deviceStatus)
	}
	return int(n), nil
}

// Device reads one device descriptor through the ANSI entry points. index is
// zero-based.
func (s *Session) Device(dir Direction, index int) (Device, error) {
	var (
		kind int32
		name = make([]byte, remote.DeviceNameLen)
		hwid = make([]byte, remote.DeviceNameLen)
	)
	start := time.Now()
	var code int32
	if dir == DeviceInput {
		code = s.table.InputGetDeviceDescA(int32(index), &kind, name, hwid)
	} else {
		code = s.table.OutputGetDeviceDescA(int32(index), &kind, name, hwid)
	}
	subject := fmt.Sprintf("%s[%d]", dir, index)
	if err := s.result(opDeviceDesc, subject, code, start, deviceStatus); err != nil {
		return Device{}, err
	}
	return Device{
		Direction:  dir,
		Index:      index,
		Type:       DeviceType(kind),
		Name:       remote.ANSIString(name),
		HardwareID: remote.ANSIString(hwid),
	}, nil
}

// DeviceW reads one device descriptor through the UTF-16 entry points.
func (s *Session) DeviceW(dir Direction, index int) (Device, error) {
	var (
		kind int32
		name = make([]uint16, remote.DeviceNameLen)
		hwid = make([]uint16, remote.DeviceNameLen)
	)
	start := time.Now()
	var code int32
	if dir == DeviceInput {
		code = s.table.InputGetDeviceDescW(int32(index), &kind, name, hwid)
	} else {
		code = s.table.OutputGetDeviceDescW(int32(index), &kind, name, hwid)
	}
	subject := fmt.Sprintf("%s[%d]", dir, index)
	if err := s.result(opDeviceDescW, subject, code, start, deviceStatus); err != nil {
		return Device{}, err
	}
	return Device{
		Direction:  dir,
		Index:      index,
		Type:       DeviceType(kind),
		Name:       remote.WideString(name),
		HardwareID: remote.WideString(hwid),
	}, nil
}

// Devices enumerates every device in the given direction. Results are read
// fresh on each call.
func (s *Session) Devices(dir Direction) (Devices, error) {
	n, err := s.DeviceCount(dir)
	if err != nil {
		return nil, err
	}
	out := make(Devices, 0, n)
	for i := 0; i < n; i++ {
		d, err := s.DeviceW(dir, i)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
