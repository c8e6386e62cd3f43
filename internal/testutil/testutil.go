package testutil

import (
	"os"
	"runtime"
	"testing"
)

// SkipUnlessEnv skips the test unless the given env var equals the wanted value.
func SkipUnlessEnv(t *testing.T, key, want string) {
	t.Helper()
	if os.Getenv(key) != want {
		t.Skipf("skipped: set %s=%s to run", key, want)
	}
}

// IsCI reports whether running under common CI environments.
func IsCI() bool {
	if os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	return false
}

// SkipUnlessVoicemeeter skips tests that talk to a real engine. They run only
// on Windows outside CI with VMREMOTE_LIVE=1.
func SkipUnlessVoicemeeter(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "windows" {
		t.Skip("skipped: the remote engine only exists on windows")
	}
	if IsCI() {
		t.Skip("skipped: no voicemeeter engine in CI")
	}
	SkipUnlessEnv(t, "VMREMOTE_LIVE", "1")
}
