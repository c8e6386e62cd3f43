package voicemeeter

import "time"

// statusTable maps documented non-zero codes of one native call to a failure
// kind. Codes missing from the table are unexpected.
type statusTable map[int32]error

var (
	loginStatus = statusTable{
		1:  ErrEngineNotRunning,
		-1: ErrClientUnavailable,
		-2: ErrAlreadyOpen,
	}
	logoutStatus = statusTable{}
	launchStatus = statusTable{
		-1: ErrNotInstalled,
	}
	infoStatus = statusTable{
		-1: ErrClientUnavailable,
		-2: ErrServerUnavailable,
	}
	dirtyStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrServerUnavailable,
	}
	getParamStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrServerUnavailable,
		-3: ErrUnknownParameter,
		-5: ErrStructureMismatch,
	}
	setParamStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrServerUnavailable,
		-3: ErrUnknownParameter,
	}
	levelStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrServerUnavailable,
		-3: ErrNoLevelAvailable,
		-4: ErrChannelOutOfRange,
	}
	midiStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrServerUnavailable,
		-5: ErrNoMidiData,
		-6: ErrNoMidiData,
	}
	scriptStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrServerUnavailable,
		-3: ErrOperationFailed,
		-4: ErrOperationFailed,
	}
	deviceStatus   = statusTable{}
	registerStatus = statusTable{
		-1: ErrOperationFailed,
	}
	callbackStatus = statusTable{
		-1: ErrOperationFailed,
		-2: ErrNoCallback,
	}
	unregisterStatus = statusTable{
		-1: ErrOperationFailed,
		1:  ErrCallbackUnregistered,
	}
)

// Native operation names used in errors, logs and metrics.
const (
	opLogin        = "login"
	opLogout       = "logout"
	opRun          = "run_voicemeeter"
	opType         = "get_voicemeeter_type"
	opVersion      = "get_voicemeeter_version"
	opDirty        = "is_parameters_dirty"
	opGetFloat     = "get_parameter_float"
	opGetString    = "get_parameter_string_a"
	opGetStringW   = "get_parameter_string_w"
	opSetFloat     = "set_parameter_float"
	opSetString    = "set_parameter_string_a"
	opSetStringW   = "set_parameter_string_w"
	opLevel        = "get_level"
	opMidi         = "get_midi_message"
	opScript       = "set_parameters"
	opScriptW      = "set_parameters_w"
	opDeviceNumber = "get_device_number"
	opDeviceDesc   = "get_device_desc_a"
	opDeviceDescW  = "get_device_desc_w"
	opCbRegister   = "audio_callback_register"
	opCbStart      = "audio_callback_start"
	opCbStop       = "audio_callback_stop"
	opCbUnregister = "audio_callback_unregister"
)

// translate maps a native status to nil or a *StatusError. Unlisted non-zero
// codes are logged and reported as ErrUnexpectedStatus.
func (s *Session) translate(op, name string, code int32, table statusTable) error {
	if code == 0 {
		return nil
	}
	if kind, ok := table[code]; ok {
		return &StatusError{Op: op, Name: name, Code: code, Err: kind}
	}
	s.log.Warn().
		Str("op", op).
		Str("name", name).
		Int32("status", code).
		Msg("unexpected status from remote engine")
	return &StatusError{Op: op, Name: name, Code: code, Err: ErrUnexpectedStatus}
}

// observe reports one finished native call to the log and metrics hook.
func (s *Session) observe(op string, code int32, started time.Time) {
	d := time.Since(started)
	s.log.Debug().
		Str("op", op).
		Int32("status", code).
		Dur("took", d).
		Msg("remote call")
	if s.metrics != nil {
		s.metrics.OnCall(op, code, d)
	}
}

// result is observe followed by translate.
func (s *Session) result(op, name string, code int32, started time.Time, table statusTable) error {
	s.observe(op, code, started)
	return s.translate(op, name, code, table)
}
