package voicemeeter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	err := &StatusError{Op: opLogin, Code: -1, Err: ErrClientUnavailable}
	assert.Equal(t, "voicemeeter: login: cannot get the voicemeeter client (status -1)", err.Error())
	assert.True(t, errors.Is(err, ErrClientUnavailable))
	assert.False(t, errors.Is(err, ErrServerUnavailable))
}

func TestScriptError(t *testing.T) {
	err := &ScriptError{Line: 12}
	assert.Equal(t, "voicemeeter: script error on line 12", err.Error())
	assert.ErrorIs(t, err, ErrScript)
}

func TestCallbackConflictError(t *testing.T) {
	assert.Equal(t, "voicemeeter: audio callback already registered", (&CallbackConflictError{}).Error())
	assert.ErrorIs(t, &CallbackConflictError{Client: "x"}, ErrCallbackRegistered)
}

func TestErrorHandlers(t *testing.T) {
	var buf bytes.Buffer
	def := &DefaultErrorHandler{Logger: zerolog.New(&buf)}
	def.HandleError(errors.New("boom"))
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	var seen []error
	h := ChainErrorHandlers(def, nil, ErrorHandlerFunc(func(err error) { seen = append(seen, err) }))
	h.HandleError(ErrNoMidiData)
	assert.Equal(t, []error{ErrNoMidiData}, seen)
	assert.Contains(t, buf.String(), "no midi data")

	// an empty chain drops errors
	ChainErrorHandlers().HandleError(ErrNoMidiData)
}
