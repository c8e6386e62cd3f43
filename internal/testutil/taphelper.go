package testutil

import (
	"testing"
	"unsafe"

	"github.com/shaban/voicemeeter/remote"
)

// TestBuffer is a remote.AudioBuffer backed by Go slices.
type TestBuffer struct {
	Raw     remote.AudioBuffer
	Inputs  [][]float32
	Outputs [][]float32
}

// NewTestBuffer allocates inputs and outputs channels of frames samples.
// Input channel c sample i holds float32(c) + float32(i)/1000 so reads can be
// checked.
func NewTestBuffer(sampleRate, frames, inputs, outputs int) *TestBuffer {
	b := &TestBuffer{
		Raw: remote.AudioBuffer{
			SampleRate:      int32(sampleRate),
			SamplesPerFrame: int32(frames),
			Inputs:          int32(inputs),
			Outputs:         int32(outputs),
		},
	}
	for c := 0; c < inputs; c++ {
		ch := make([]float32, frames)
		for i := range ch {
			ch[i] = float32(c) + float32(i)/1000
		}
		b.Inputs = append(b.Inputs, ch)
		b.Raw.Read[c] = &ch[0]
	}
	for c := 0; c < outputs; c++ {
		ch := make([]float32, frames)
		b.Outputs = append(b.Outputs, ch)
		b.Raw.Write[c] = &ch[0]
	}
	return b
}

// FireInfo invokes the registered callback with an AudioInfo command.
func FireInfo(t *testing.T, f *FakeTable, command int32, info remote.AudioInfo) int32 {
	t.Helper()
	return fire(t, f, command, unsafe.Pointer(&info))
}

// FireBuffer invokes the registered callback with a buffer command.
func FireBuffer(t *testing.T, f *FakeTable, command int32, b *TestBuffer) int32 {
	t.Helper()
	return fire(t, f, command, unsafe.Pointer(&b.Raw))
}

func fire(t *testing.T, f *FakeTable, command int32, data unsafe.Pointer) int32 {
	t.Helper()
	f.Lock()
	cb := f.Callback
	f.Unlock()
	if cb == nil {
		t.Fatalf("no audio callback registered")
	}
	return cb(command, data, 0)
}
