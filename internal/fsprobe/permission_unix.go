//go:build !windows

package fsprobe

import "golang.org/x/sys/unix"

// checkOperatingSystemPermission asks the kernel using the real user and group ids.
func checkOperatingSystemPermission(path string, permission Permission) bool {
	mode := uint32(unix.R_OK)
	if permission == PermissionExecute {
		mode = unix.X_OK
	}
	return unix.Access(path, mode) == nil
}
