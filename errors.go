package voicemeeter

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Failure kinds reported by the remote engine. Every error returned by a
// Session operation wraps exactly one of these; test with errors.Is.
var (
	ErrAlreadyOpen          = errors.New("client already logged in")
	ErrEngineNotRunning     = errors.New("voicemeeter is not running")
	ErrClientUnavailable    = errors.New("cannot get the voicemeeter client")
	ErrServerUnavailable    = errors.New("no voicemeeter server")
	ErrNotInstalled         = errors.New("voicemeeter is not installed")
	ErrOperationFailed      = errors.New("operation failed")
	ErrUnknownParameter     = errors.New("unknown parameter")
	ErrStructureMismatch    = errors.New("structure mismatch")
	ErrNoLevelAvailable     = errors.New("no level available")
	ErrChannelOutOfRange    = errors.New("level type or channel out of range")
	ErrNoMidiData           = errors.New("no midi data")
	ErrScript               = errors.New("script error")
	ErrCallbackRegistered   = errors.New("audio callback already registered")
	ErrNoCallback           = errors.New("no audio callback registered")
	ErrCallbackUnregistered = errors.New("audio callback already unregistered")
	ErrUnexpectedStatus     = errors.New("unexpected status")
)

// StatusError is a non-success status returned by a native call.
type StatusError struct {
	Op   string // native operation, e.g. "get_parameter_float"
	Name string // parameter name or other subject, may be empty
	Code int32  // raw status from the engine
	Err  error  // one of the Err* kinds above
}

func (e *StatusError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("voicemeeter: %s %s: %v (status %d)", e.Op, e.Name, e.Err, e.Code)
	}
	return fmt.Sprintf("voicemeeter: %s: %v (status %d)", e.Op, e.Err, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

// ScriptError reports the first line of a parameter script the engine could
// not parse. Line is 1-based.
type ScriptError struct {
	Line int
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("voicemeeter: script error on line %d", e.Line)
}

func (e *ScriptError) Unwrap() error { return ErrScript }

// CallbackConflictError is returned when another application already holds
// the requested audio callback slot.
type CallbackConflictError struct {
	Client string // name reported by the engine for the current holder
}

func (e *CallbackConflictError) Error() string {
	if e.Client == "" {
		return "voicemeeter: audio callback already registered"
	}
	return fmt.Sprintf("voicemeeter: audio callback already registered by %q", e.Client)
}

func (e *CallbackConflictError) Unwrap() error { return ErrCallbackRegistered }

// ErrorHandler receives failures from background work such as Monitor.Run.
type ErrorHandler interface {
	HandleError(error)
}

// DefaultErrorHandler logs errors at warn level.
type DefaultErrorHandler struct {
	Logger zerolog.Logger
}

// HandleError implements ErrorHandler.
func (h *DefaultErrorHandler) HandleError(err error) {
	h.Logger.Warn().Err(err).Msg("voicemeeter background error")
}

// ErrorHandlerFunc lets a plain function serve as an ErrorHandler.
type ErrorHandlerFunc func(error)

// HandleError calls f(err).
func (f ErrorHandlerFunc) HandleError(err error) { f(err) }

// ChainErrorHandlers returns a handler that passes each error to every
// non-nil handler in order.
func ChainErrorHandlers(handlers ...ErrorHandler) ErrorHandler {
	return ErrorHandlerFunc(func(err error) {
		for _, h := range handlers {
			if h != nil {
				h.HandleError(err)
			}
		}
	})
}
