package voicemeeter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shaban/voicemeeter/remote"
)

// Kind identifies a Voicemeeter product variant.
type Kind int32

const (
	Standard Kind = 1
	Banana   Kind = 2
	Potato   Kind = 3
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Banana:
		return "banana"
	case Potato:
		return "potato"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// ParseKind accepts the names returned by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "voicemeeter", "1":
		return Standard, nil
	case "banana", "2":
		return Banana, nil
	case "potato", "3":
		return Potato, nil
	}
	return 0, fmt.Errorf("unknown voicemeeter kind %q", s)
}

// InputChannels is the number of level channels addressable with the input
// level kinds.
func (k Kind) InputChannels() int {
	switch k {
	case Standard:
		return 12
	case Banana:
		return 22
	case Potato:
		return 34
	}
	return 0
}

// OutputChannels is the number of level channels addressable with
// LevelOutput.
func (k Kind) OutputChannels() int {
	switch k {
	case Standard:
		return 16
	case Banana:
		return 40
	case Potato:
		return 64
	}
	return 0
}

// Version is the engine version packed by GetVoicemeeterVersion as
// v1<<24 | v2<<16 | v3<<8 | v4.
type Version struct {
	Major, Minor, Patch, Build uint8
}

func versionFromPacked(v int32) Version {
	u := uint32(v)
	return Version{
		Major: uint8(u >> 24),
		Minor: uint8(u >> 16),
		Patch: uint8(u >> 8),
		Build: uint8(u),
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

// MetricsHook observes every native call. Implementations must be safe for
// concurrent use.
type MetricsHook interface {
	OnCall(op string, status int32, took time.Duration)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for per-call debug lines and unexpected
// status warnings. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMetrics attaches a metrics hook.
func WithMetrics(m MetricsHook) Option {
	return func(s *Session) { s.metrics = m }
}

// Session is the logged-in connection to the remote engine. Only one session
// can be logged in per process at a time.
//
// Telemetry calls (IsDirty, GetLevel, GetLevels, GetMidiMessage, GetMidiEvents) are
// serialized internally because the engine does not allow concurrent
// polling. Parameter and device calls go straight through.
type Session struct {
	id      uuid.UUID
	table   remote.CallTable
	log     zerolog.Logger
	metrics MetricsHook

	lifeMu sync.Mutex
	open   bool

	telemetryMu sync.Mutex
}

var guard struct {
	mu    sync.Mutex
	owner *Session
}

func (s *Session) acquire() error {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.owner != nil && guard.owner != s {
		return fmt.Errorf("voicemeeter: %s: %w (held by session %s)", opLogin, ErrAlreadyOpen, guard.owner.id)
	}
	guard.owner = s
	return nil
}

func (s *Session) release() {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.owner == s {
		guard.owner = nil
	}
}

// New wraps a call table without logging in.
func New(table remote.CallTable, opts ...Option) *Session {
	s := &Session{
		id:    uuid.New(),
		table: table,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.id.String()).Logger()
	return s
}

// Open is New followed by Login. When the engine reports that Voicemeeter is
// not running the session is still returned, logged in, together with an
// error wrapping ErrEngineNotRunning; the caller may Launch and must Close.
func Open(table remote.CallTable, opts ...Option) (*Session, error) {
	s := New(table, opts...)
	if err := s.Login(); err != nil {
		if s.IsOpen() {
			return s, err
		}
		return nil, err
	}
	return s, nil
}

// ID identifies this session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// IsOpen reports whether Login succeeded and Close has not.
func (s *Session) IsOpen() bool {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	return s.open
}

// Login opens the communication pipe with the engine.
func (s *Session) Login() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if err := s.acquire(); err != nil {
		return err
	}

	start := time.Now()
	code := s.table.Login()
	err := s.result(opLogin, "", code, start, loginStatus)
	switch {
	case code == 0 || code == 1:
		s.open = true
		s.log.Info().Bool("engine_running", code == 0).Msg("logged in")
	case !s.open:
		s.release()
	}
	return err
}

// Close logs out. A second Close reaches the engine again and surfaces
// whatever status it reports.
func (s *Session) Close() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	start := time.Now()
	code := s.table.Logout()
	if err := s.result(opLogout, "", code, start, logoutStatus); err != nil {
		return err
	}
	if s.open {
		s.log.Info().Msg("logged out")
	}
	s.open = false
	s.release()
	return nil
}

// Launch asks the engine to start the given product.
func (s *Session) Launch(kind Kind) error {
	start := time.Now()
	code := s.table.RunVoicemeeter(int32(kind))
	return s.result(opRun, kind.String(), code, start, launchStatus)
}

// Kind reports which product is running.
func (s *Session) Kind() (Kind, error) {
	var k int32
	start := time.Now()
	code := s.table.GetVoicemeeterType(&k)
	if err := s.result(opType, "", code, start, infoStatus); err != nil {
		return 0, err
	}
	return Kind(k), nil
}

// Version reports the running engine version.
func (s *Session) Version() (Version, error) {
	var v int32
	start := time.Now()
	code := s.table.GetVoicemeeterVersion(&v)
	if err := s.result(opVersion, "", code, start, infoStatus); err != nil {
		return Version{}, err
	}
	return versionFromPacked(v), nil
}
