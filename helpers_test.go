package voicemeeter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shaban/voicemeeter/internal/testutil"
)

// openFake logs a session into a fresh fake and logs it out at cleanup.
func openFake(t *testing.T, opts ...Option) (*Session, *testutil.FakeTable) {
	t.Helper()
	f := testutil.NewFakeTable()
	s, err := Open(f, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, f
}

type recordedCall struct {
	op     string
	status int32
}

type recordingHook struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (h *recordingHook) OnCall(op string, status int32, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, recordedCall{op, status})
}

func (h *recordingHook) ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	for i, c := range h.calls {
		out[i] = c.op
	}
	return out
}
