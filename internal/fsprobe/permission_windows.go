//go:build windows

package fsprobe

import "os"

// checkOperatingSystemPermission has no access(2) equivalent on Windows: read
// access is probed by opening the path, execute access is not tracked by mode bits.
func checkOperatingSystemPermission(path string, permission Permission) bool {
	if permission == PermissionExecute {
		fileInfo, statError := os.Stat(path)
		return statError == nil && !fileInfo.IsDir()
	}
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	_ = fileHandle.Close()
	return true
}
