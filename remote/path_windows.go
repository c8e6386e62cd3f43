//go:build windows

package remote

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

const uninstallKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\VB:Voicemeeter {17359A74-1236-5467}`

// DefaultPath locates the remote DLL through the installer's uninstall
// entry (a 32-bit registry view), falling back to DefaultInstallDir.
func DefaultPath() (string, error) {
	if dir, err := installDirFromRegistry(); err == nil {
		p := PathIn(dir)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	p := PathIn(DefaultInstallDir)
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}

func installDirFromRegistry() (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, uninstallKey,
		registry.QUERY_VALUE|registry.WOW64_32KEY)
	if err != nil {
		return "", err
	}
	defer k.Close()

	uninstaller, _, err := k.GetStringValue("UninstallString")
	if err != nil {
		return "", err
	}
	return filepath.Dir(uninstaller), nil
}
