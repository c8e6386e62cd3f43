package voicemeeter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0.0"

// Snapshot is a captured set of parameter values that can be written back
// with Restore.
type Snapshot struct {
	Version string             `json:"version"`
	ID      uuid.UUID          `json:"id"`
	Kind    Kind               `json:"kind,omitempty"`
	TakenAt time.Time          `json:"takenAt"`
	Floats  map[string]float32 `json:"floats,omitempty"`
	Strings map[string]string  `json:"strings,omitempty"`
}

// Capture reads every named parameter into a snapshot. The engine kind is
// recorded when available. Any read failure aborts the capture.
func (s *Session) Capture(floatNames, stringNames []string) (*Snapshot, error) {
	snap := &Snapshot{
		Version: SnapshotVersion,
		ID:      uuid.New(),
		TakenAt: time.Now().UTC(),
		Floats:  make(map[string]float32, len(floatNames)),
		Strings: make(map[string]string, len(stringNames)),
	}
	if k, err := s.Kind(); err == nil {
		snap.Kind = k
	}

	for _, name := range floatNames {
		v, err := s.GetFloat(name)
		if err != nil {
			return nil, fmt.Errorf("capture %s: %w", name, err)
		}
		snap.Floats[name] = v
	}
	for _, name := range stringNames {
		v, err := s.GetStringW(name)
		if err != nil {
			return nil, fmt.Errorf("capture %s: %w", name, err)
		}
		snap.Strings[name] = v
	}
	return snap, nil
}

// Script renders the snapshot as a parameter script. Names are sorted so the
// output is stable. String values containing a double quote cannot be
// written in a script and are left out; Restore sets them one by one.
func (snap *Snapshot) Script() *Script {
	sc := &Script{}
	for _, name := range sortedKeys(snap.Floats) {
		sc.Set(name, snap.Floats[name])
	}
	for _, name := range sortedKeys(snap.Strings) {
		if v := snap.Strings[name]; !strings.Contains(v, `"`) {
			sc.SetString(name, v)
		}
	}
	return sc
}

// Validate checks the snapshot can be restored by this package.
func (snap *Snapshot) Validate() error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("incompatible snapshot version: got %s, expected %s",
			snap.Version, SnapshotVersion)
	}
	return nil
}

// Restore writes a snapshot back in a single script, followed by a direct
// SetStringW for each string value the script cannot carry.
func (s *Session) Restore(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if sc := snap.Script(); sc.Len() > 0 {
		if err := s.ApplyScriptW(sc.String()); err != nil {
			return fmt.Errorf("restore snapshot %s: %w", snap.ID, err)
		}
	}
	for _, name := range sortedKeys(snap.Strings) {
		v := snap.Strings[name]
		if !strings.Contains(v, `"`) {
			continue
		}
		if err := s.SetStringW(name, v); err != nil {
			return fmt.Errorf("restore snapshot %s: %w", snap.ID, err)
		}
	}
	return nil
}

// SaveSnapshot writes snap to w as indented JSON.
func SaveSnapshot(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
