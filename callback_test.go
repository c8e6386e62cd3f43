package voicemeeter

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaban/voicemeeter/internal/testutil"
	"github.com/shaban/voicemeeter/remote"
)

// passthrough copies each input channel to the matching output.
type passthrough struct {
	starts  atomic.Int32
	changes atomic.Int32
	info    AudioInfo
	buffers atomic.Int32
}

func (p *passthrough) Info(cmd CallbackCommand, info AudioInfo) {
	switch cmd {
	case CommandStarting:
		p.starts.Add(1)
		p.info = info
	case CommandChange:
		p.changes.Add(1)
	}
}

func (p *passthrough) Process(_ CallbackCommand, buf AudioBuffer) {
	p.buffers.Add(1)
	for i := 0; i < buf.NumOutputs(); i++ {
		copy(buf.Output(i), buf.Input(i))
	}
}

func TestRegisterAudioCallback(t *testing.T) {
	s, f := openFake(t)
	h := &passthrough{}

	require.NoError(t, s.RegisterAudioCallback(CallbackInput|CallbackMain, "vmremote-test", h))
	assert.Equal(t, int32(remote.CallbackIn|remote.CallbackMain), f.CallbackMode)
	assert.Equal(t, "vmremote-test", f.CallbackClient)

	require.NoError(t, s.StartAudioCallback())

	testutil.FireInfo(t, f, remote.CommandStarting, remote.AudioInfo{SampleRate: 48000, SamplesPerFrame: 512})
	assert.Equal(t, int32(1), h.starts.Load())
	assert.Equal(t, AudioInfo{SampleRate: 48000, SamplesPerFrame: 512}, h.info)

	buf := testutil.NewTestBuffer(48000, 8, 4, 2)
	assert.Zero(t, testutil.FireBuffer(t, f, remote.CommandBufferIn, buf))
	assert.Equal(t, int32(1), h.buffers.Load())
	assert.Equal(t, buf.Inputs[0], buf.Outputs[0])
	assert.Equal(t, buf.Inputs[1], buf.Outputs[1])

	testutil.FireInfo(t, f, remote.CommandChange, remote.AudioInfo{SampleRate: 44100, SamplesPerFrame: 256})
	assert.Equal(t, int32(1), h.changes.Load())

	// unknown commands and nil data are ignored
	assert.Zero(t, f.Callback(99, nil, 0))

	require.NoError(t, s.StopAudioCallback())
	require.NoError(t, s.UnregisterAudioCallback())
	assert.Nil(t, f.Callback)
}

func TestRegisterAudioCallback_Conflict(t *testing.T) {
	s, f := openFake(t)
	f.CallbackHolder = "OBS Studio"
	f.SetStatus("AudioCallbackRegister", 1)

	err := s.RegisterAudioCallback(CallbackOutput, "me", &passthrough{})
	var ce *CallbackConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "OBS Studio", ce.Client)
	assert.ErrorIs(t, err, ErrCallbackRegistered)
	assert.Contains(t, err.Error(), "OBS Studio")

	f.SetStatus("AudioCallbackRegister", -1)
	assert.ErrorIs(t, s.RegisterAudioCallback(CallbackOutput, "me", &passthrough{}), ErrOperationFailed)

	f.SetStatus("AudioCallbackRegister", -9)
	assert.ErrorIs(t, s.RegisterAudioCallback(CallbackOutput, "me", &passthrough{}), ErrUnexpectedStatus)
}

func TestRegisterAudioCallback_LongClientName(t *testing.T) {
	s, f := openFake(t)
	long := "client-name-that-is-much-longer-than-the-sixty-four-characters-the-engine-allows"

	require.NoError(t, s.RegisterAudioCallback(CallbackMain, long, &passthrough{}))
	assert.Equal(t, long[:remote.ClientNameLen-1], f.CallbackClient)
}

func TestAudioCallback_StartStopStatuses(t *testing.T) {
	s, f := openFake(t)

	for code, want := range map[int32]error{-1: ErrOperationFailed, -2: ErrNoCallback, 5: ErrUnexpectedStatus} {
		f.SetStatus("AudioCallbackStart", code)
		f.SetStatus("AudioCallbackStop", code)
		assert.ErrorIs(t, s.StartAudioCallback(), want)
		assert.ErrorIs(t, s.StopAudioCallback(), want)
	}

	for code, want := range map[int32]error{-1: ErrOperationFailed, 1: ErrCallbackUnregistered, -2: ErrUnexpectedStatus} {
		f.SetStatus("AudioCallbackUnregister", code)
		assert.ErrorIs(t, s.UnregisterAudioCallback(), want)
	}
}

func TestAudioBuffer_Bounds(t *testing.T) {
	tb := testutil.NewTestBuffer(44100, 4, 2, 1)
	buf := AudioBuffer{raw: &tb.Raw}

	assert.Equal(t, 44100, buf.SampleRate())
	assert.Equal(t, 4, buf.Frames())
	assert.Equal(t, 2, buf.NumInputs())
	assert.Equal(t, 1, buf.NumOutputs())

	assert.Equal(t, tb.Inputs[1], buf.Input(1))
	assert.Equal(t, float32(1), buf.Input(1)[0])
	assert.Nil(t, buf.Input(2))
	assert.Nil(t, buf.Input(-1))
	assert.Len(t, buf.Output(0), 4)
	assert.Nil(t, buf.Output(1))

	// writes land in the backing memory
	buf.Output(0)[2] = 0.5
	assert.Equal(t, float32(0.5), tb.Outputs[0][2])
}
