package remote

import (
	"errors"
	"path/filepath"
	"strconv"
)

// DefaultInstallDir is where the Voicemeeter installer puts the remote DLLs.
const DefaultInstallDir = `C:\Program Files (x86)\VB\Voicemeeter`

// ErrUnsupportedPlatform is returned by Open on platforms without the DLL.
var ErrUnsupportedPlatform = errors.New("voicemeeter remote: only available on windows")

// DLLName returns the remote DLL file name for a process of the given
// pointer width.
func DLLName(bits int) string {
	if bits == 64 {
		return "VoicemeeterRemote64.dll"
	}
	return "VoicemeeterRemote.dll"
}

// PathIn joins an install directory with the DLL name for the current
// process width.
func PathIn(dir string) string {
	return filepath.Join(dir, DLLName(strconv.IntSize))
}
