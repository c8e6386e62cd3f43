package voicemeeter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var getStatusCases = []struct {
	code int32
	want error
}{
	{-1, ErrOperationFailed},
	{-2, ErrServerUnavailable},
	{-3, ErrUnknownParameter},
	{-5, ErrStructureMismatch},
	{-4, ErrUnexpectedStatus},
	{3, ErrUnexpectedStatus},
}

func TestGetters_KnownStatuses(t *testing.T) {
	s, f := openFake(t)
	f.Floats["Strip[0].gain"] = 4
	f.Strings["Strip[0].label"] = "Mic"

	for _, tc := range getStatusCases {
		f.SetStatus("GetParameterFloat", tc.code)
		f.SetStatus("GetParameterStringA", tc.code)
		f.SetStatus("GetParameterStringW", tc.code)

		v, err := s.GetFloat("Strip[0].gain")
		assert.ErrorIs(t, err, tc.want, "float status %d", tc.code)
		assert.Zero(t, v)

		str, err := s.GetString("Strip[0].label")
		assert.ErrorIs(t, err, tc.want, "string status %d", tc.code)
		assert.Empty(t, str)

		str, err = s.GetStringW("Strip[0].label")
		assert.ErrorIs(t, err, tc.want, "wide status %d", tc.code)
		assert.Empty(t, str)
	}
}

func TestSetters_KnownStatuses(t *testing.T) {
	s, f := openFake(t)

	tests := []struct {
		code int32
		want error
	}{
		{-1, ErrOperationFailed},
		{-2, ErrServerUnavailable},
		{-3, ErrUnknownParameter},
		{-5, ErrUnexpectedStatus}, // setters have no structure mismatch
		{2, ErrUnexpectedStatus},
	}
	for _, tc := range tests {
		f.SetStatus("SetParameterFloat", tc.code)
		f.SetStatus("SetParameterStringA", tc.code)
		f.SetStatus("SetParameterStringW", tc.code)

		assert.ErrorIs(t, s.SetFloat("Strip[0].gain", 1), tc.want)
		assert.ErrorIs(t, s.SetString("Strip[0].label", "x"), tc.want)
		assert.ErrorIs(t, s.SetStringW("Strip[0].label", "x"), tc.want)
	}
	assert.Empty(t, f.Floats)
	assert.Empty(t, f.Strings)
}

func TestStatusErrorCarriesNameAndCode(t *testing.T) {
	s, _ := openFake(t)

	_, err := s.GetFloat("Strip[99].gain")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, opGetFloat, se.Op)
	assert.Equal(t, "Strip[99].gain", se.Name)
	assert.Equal(t, int32(-3), se.Code)
	assert.Equal(t, "voicemeeter: get_parameter_float Strip[99].gain: unknown parameter (status -3)", err.Error())
}

func TestFloatRoundTrip(t *testing.T) {
	s, f := openFake(t)

	require.NoError(t, s.SetFloat("Bus[0].gain", -6.5))
	assert.Equal(t, float32(-6.5), f.Floats["Bus[0].gain"])

	v, err := s.GetFloat("Bus[0].gain")
	require.NoError(t, err)
	assert.Equal(t, float32(-6.5), v)
}

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ansi  string // what survives the ANSI code page
	}{
		{"ascii", "Microphone", "Microphone"},
		{"latin1", "Café Müller", "Café Müller"},
		{"cjk", "マイク", "???"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, f := openFake(t)

			require.NoError(t, s.SetStringW("Strip[0].label", tt.value))
			assert.Equal(t, tt.value, f.Strings["Strip[0].label"])
			got, err := s.GetStringW("Strip[0].label")
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)

			require.NoError(t, s.SetString("Strip[1].label", tt.value))
			assert.Equal(t, tt.ansi, f.Strings["Strip[1].label"])
			got, err = s.GetString("Strip[1].label")
			require.NoError(t, err)
			assert.Equal(t, tt.ansi, got)

			require.NoError(t, s.Close())
		})
	}
}

func TestGetString_Truncated(t *testing.T) {
	s, f := openFake(t)
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	f.Strings["x"] = string(long)

	got, err := s.GetStringW("x")
	require.NoError(t, err)
	assert.Len(t, got, 511)
}

func TestIsDirty(t *testing.T) {
	s, f := openFake(t)

	dirty, err := s.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	f.MarkDirty()
	dirty, err = s.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)

	dirty, err = s.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty, "dirty flag is cleared by the poll")

	for code, want := range map[int32]error{-1: ErrOperationFailed, -2: ErrServerUnavailable, 2: ErrUnexpectedStatus, -3: ErrUnexpectedStatus} {
		f.SetStatus("IsParametersDirty", code)
		dirty, err = s.IsDirty()
		assert.ErrorIs(t, err, want)
		assert.False(t, dirty)
	}
}

func TestApplyScript(t *testing.T) {
	s, f := openFake(t)

	require.NoError(t, s.ApplyScript("Strip[0].mute=1;Bus[0].gain=-6"))
	require.NoError(t, s.ApplyScriptW("Strip[0].label=\"Voix\""))
	assert.Equal(t, []string{"Strip[0].mute=1;Bus[0].gain=-6", "Strip[0].label=\"Voix\""}, f.Scripts)

	tests := []struct {
		code int32
		want error
	}{
		{-1, ErrOperationFailed},
		{-2, ErrServerUnavailable},
		{-3, ErrOperationFailed},
		{-4, ErrOperationFailed},
		{-7, ErrUnexpectedStatus},
	}
	for _, tc := range tests {
		f.SetStatus("SetParameters", tc.code)
		f.SetStatus("SetParametersW", tc.code)
		assert.ErrorIs(t, s.ApplyScript("x=1"), tc.want)
		assert.ErrorIs(t, s.ApplyScriptW("x=1"), tc.want)
	}
}

func TestApplyScript_LineError(t *testing.T) {
	s, f := openFake(t)
	f.SetStatus("SetParameters", 4)

	err := s.ApplyScript("a=1\nb=2\nc=3\nbroken")
	var se *ScriptError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 4, se.Line)
	assert.ErrorIs(t, err, ErrScript)
	assert.NotErrorIs(t, err, ErrOperationFailed)
}
