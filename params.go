package voicemeeter

import (
	"time"

	"github.com/shaban/voicemeeter/remote"
)

// IsDirty reports whether any parameter changed since the previous call. It
// must be polled regularly for GetFloat and GetString reads to see fresh values.
func (s *Session) IsDirty() (bool, error) {
	s.telemetryMu.Lock()
	defer s.telemetryMu.Unlock()

	start := time.Now()
	code := s.table.IsParametersDirty()
	s.observe(opDirty, code, start)
	switch code {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, s.translate(opDirty, "", code, dirtyStatus)
}

// GetFloat reads a numeric parameter such as "Strip[0].gain".
func (s *Session) GetFloat(name string) (float32, error) {
	var v float32
	start := time.Now()
	code := s.table.GetParameterFloat(remote.NewANSI(name), &v)
	if err := s.result(opGetFloat, name, code, start, getParamStatus); err != nil {
		return 0, err
	}
	return v, nil
}

// SetFloat writes a numeric parameter.
func (s *Session) SetFloat(name string, value float32) error {
	start := time.Now()
	code := s.table.SetParameterFloat(remote.NewANSI(name), value)
	return s.result(opSetFloat, name, code, start, setParamStatus)
}

// GetString reads a string parameter through the ANSI entry point.
func (s *Session) GetString(name string) (string, error) {
	buf := make([]byte, remote.StringLen)
	start := time.Now()
	code := s.table.GetParameterStringA(remote.NewANSI(name), buf)
	if err := s.result(opGetString, name, code, start, getParamStatus); err != nil {
		return "", err
	}
	return remote.ANSIString(buf), nil
}

// GetStringW reads a string parameter through the UTF-16 entry point.
func (s *Session) GetStringW(name string) (string, error) {
	buf := make([]uint16, remote.StringLen)
	start := time.Now()
	code := s.table.GetParameterStringW(remote.NewANSI(name), buf)
	if err := s.result(opGetStringW, name, code, start, getParamStatus); err != nil {
		return "", err
	}
	return remote.WideString(buf), nil
}

// SetString writes a string parameter through the ANSI entry point.
func (s *Session) SetString(name, value string) error {
	start := time.Now()
	code := s.table.SetParameterStringA(remote.NewANSI(name), remote.NewANSI(value))
	return s.result(opSetString, name, code, start, setParamStatus)
}

// SetStringW writes a string parameter through the UTF-16 entry point.
func (s *Session) SetStringW(name, value string) error {
	start := time.Now()
	code := s.table.SetParameterStringW(remote.NewANSI(name), remote.NewWide(value))
	return s.result(opSetStringW, name, code, start, setParamStatus)
}

// ApplyScript submits assignments separated by ',', ';' or newlines, e.g.
// "Strip[0].mute=1;Bus[0].gain=-6". A syntax error is reported as a
// *ScriptError carrying the 1-based line.
func (s *Session) ApplyScript(script string) error {
	start := time.Now()
	code := s.table.SetParameters(remote.NewANSI(script))
	return s.scriptResult(opScript, code, start)
}

// ApplyScriptW is ApplyScript through the UTF-16 entry point.
func (s *Session) ApplyScriptW(script string) error {
	start := time.Now()
	code := s.table.SetParametersW(remote.NewWide(script))
	return s.scriptResult(opScriptW, code, start)
}

func (s *Session) scriptResult(op string, code int32, started time.Time) error {
	s.observe(op, code, started)
	if code > 0 {
		return &ScriptError{Line: int(code)}
	}
	return s.translate(op, "", code, scriptStatus)
}
