package remote

// AudioInfo is VBVMR_T_AUDIOINFO, passed with the starting, ending and
// change callback commands.
type AudioInfo struct {
	SampleRate      int32
	SamplesPerFrame int32
}

// MaxAudioChannels is the length of the read/write pointer arrays in
// VBVMR_T_AUDIOBUFFER.
const MaxAudioChannels = 128

// AudioBuffer is VBVMR_T_AUDIOBUFFER, passed with the buffer callback
// commands. Read and Write hold Inputs and Outputs valid pointers to frames
// of SamplesPerFrame 32-bit floats.
type AudioBuffer struct {
	SampleRate      int32
	SamplesPerFrame int32
	Inputs          int32
	Outputs         int32
	Read            [MaxAudioChannels]*float32
	Write           [MaxAudioChannels]*float32
}

// Callback command codes (VBVMR_CBCOMMAND_*).
const (
	CommandStarting   int32 = 1
	CommandEnding     int32 = 2
	CommandChange     int32 = 3
	CommandBufferIn   int32 = 10
	CommandBufferOut  int32 = 11
	CommandBufferMain int32 = 20
)

// Callback modes (VBVMR_AUDIOCALLBACK_*).
const (
	CallbackIn   int32 = 0x00000001
	CallbackOut  int32 = 0x00000002
	CallbackMain int32 = 0x00000004
)
