package voicemeeter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaban/voicemeeter/internal/testutil"
)

var (
	fakeInputs = []testutil.FakeDevice{
		{Type: 3, Name: "Microphone (USB Audio)", HardwareID: `{0.0.1.00000000}.{a1}`},
		{Type: 1, Name: "Line In", HardwareID: "mme#2"},
		{Type: 4, Name: "Réseau Entrée", HardwareID: "ks#3"},
	}
	fakeOutputs = []testutil.FakeDevice{
		{Type: 5, Name: "ASIO Fireface", HardwareID: "asio#1"},
		{Type: 3, Name: "Speakers (Realtek)", HardwareID: `{0.0.0.00000000}.{b2}`},
	}
)

func TestDeviceCount(t *testing.T) {
	s, f := openFake(t)
	f.SetDevices(fakeInputs, fakeOutputs)

	n, err := s.DeviceCount(DeviceInput)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.DeviceCount(DeviceOutput)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f.SetStatus("OutputGetDeviceNumber", -1)
	n, err = s.DeviceCount(DeviceOutput)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Zero(t, n)
}

func TestDevice_RoundTrip(t *testing.T) {
	s, f := openFake(t)
	f.SetDevices(fakeInputs, fakeOutputs)

	read := map[string]func(Direction, int) (Device, error){
		"ansi": s.Device,
		"wide": s.DeviceW,
	}
	for variant, get := range read {
		for _, dir := range []Direction{DeviceInput, DeviceOutput} {
			src := fakeInputs
			if dir == DeviceOutput {
				src = fakeOutputs
			}
			for _, idx := range []int{0, len(src) - 1} {
				d, err := get(dir, idx)
				require.NoError(t, err, "%s %s[%d]", variant, dir, idx)
				want := Device{
					Direction:  dir,
					Index:      idx,
					Type:       DeviceType(src[idx].Type),
					Name:       src[idx].Name,
					HardwareID: src[idx].HardwareID,
				}
				if diff := cmp.Diff(want, d); diff != "" {
					t.Errorf("%s %s[%d] mismatch (-want +got):\n%s", variant, dir, idx, diff)
				}
			}
		}
	}
}

func TestDevice_Errors(t *testing.T) {
	s, f := openFake(t)
	f.SetDevices(fakeInputs, fakeOutputs)

	_, err := s.Device(DeviceInput, 3)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	f.SetStatus("OutputGetDeviceDescW", -2)
	d, err := s.DeviceW(DeviceOutput, 0)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Zero(t, d)
	assert.Contains(t, err.Error(), "output[0]")
}

func TestDevices(t *testing.T) {
	s, f := openFake(t)
	f.SetDevices(fakeInputs, fakeOutputs)

	in, err := s.Devices(DeviceInput)
	require.NoError(t, err)
	require.Len(t, in, 3)
	assert.Equal(t, "Réseau Entrée", in[2].Name)

	wdm := in.ByType(WDM)
	require.Len(t, wdm, 1)
	assert.Equal(t, "Microphone (USB Audio)", wdm[0].Name)

	assert.Len(t, in.ByName("line"), 1)
	assert.Empty(t, in.ByName("hdmi"))

	d := in.ByHardwareID("ks#3")
	require.NotNil(t, d)
	assert.Equal(t, KS, d.Type)
	assert.Nil(t, in.ByHardwareID("nope"))

	// enumeration is never cached
	f.SetDevices(fakeInputs[:1], nil)
	in, err = s.Devices(DeviceInput)
	require.NoError(t, err)
	assert.Len(t, in, 1)
	out, err := s.Devices(DeviceOutput)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDeviceTypeString(t *testing.T) {
	assert.Equal(t, "MME", MME.String())
	assert.Equal(t, "ASIO", ASIO.String())
	assert.Equal(t, "devtype(2)", DeviceType(2).String())
	assert.Equal(t, "input", DeviceInput.String())
	assert.Equal(t, "output", DeviceOutput.String())
}
