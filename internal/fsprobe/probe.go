// Package fsprobe exposes the blocking filesystem queries the tree engine relies on.
package fsprobe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// EntryType classifies a directory entry.
type EntryType int

const (
	// EntryUnknown marks entries whose type could not be determined or is not tracked.
	EntryUnknown EntryType = iota
	EntryDirectory
	EntryFile
	EntryLink
)

// Permission selects the access check performed by CheckPermission.
type Permission int

const (
	PermissionRead Permission = iota
	PermissionExecute
)

const (
	// maxSymlinkHops bounds symlink resolution, matching the usual kernel limit.
	maxSymlinkHops = 40

	errorListDirectoryFormat = "listing directory %s: %w"
	errorReadLinkFormat      = "reading link %s: %w"
)

var (
	// ErrSymlinksUnsupported is returned when the backing filesystem cannot read links.
	ErrSymlinksUnsupported = errors.New("filesystem does not support symlinks")
	// ErrTooManyLinks is returned when resolution exceeds maxSymlinkHops.
	ErrTooManyLinks = errors.New("too many levels of symbolic links")
)

// Entry is one name returned by ListEntries.
type Entry struct {
	Name string
	Type EntryType
}

// Info is the subset of stat data the engine uses.
type Info struct {
	Type    EntryType
	ModTime time.Time
}

// Probe answers filesystem questions. Every call blocks until the
// filesystem responds.
type Probe interface {
	ListEntries(directoryPath string) ([]Entry, error)
	// HasEntries peeks for a single entry without listing the directory.
	HasEntries(directoryPath string) bool
	// Stat describes the path itself without following a final symlink.
	Stat(path string) (Info, error)
	// ResolveSymlink returns the absolute path the link ultimately points to.
	ResolveSymlink(path string) (string, error)
	CheckPermission(path string, permission Permission) bool
}

// FileSystemProbe implements Probe on top of an afero filesystem.
type FileSystemProbe struct {
	fileSystem afero.Fs
}

// NewFileSystemProbe wraps the provided filesystem.
func NewFileSystemProbe(fileSystem afero.Fs) *FileSystemProbe {
	return &FileSystemProbe{fileSystem: fileSystem}
}

// NewOSProbe returns a probe backed by the operating system filesystem.
func NewOSProbe() *FileSystemProbe {
	return NewFileSystemProbe(afero.NewOsFs())
}

// ListEntries lists the directory once and classifies each entry from its lstat mode.
func (probe *FileSystemProbe) ListEntries(directoryPath string) ([]Entry, error) {
	fileInfos, readError := afero.ReadDir(probe.fileSystem, directoryPath)
	if readError != nil {
		return nil, fmt.Errorf(errorListDirectoryFormat, directoryPath, readError)
	}
	entries := make([]Entry, 0, len(fileInfos))
	for _, fileInfo := range fileInfos {
		entries = append(entries, Entry{Name: fileInfo.Name(), Type: classifyMode(fileInfo.Mode())})
	}
	return entries, nil
}

// HasEntries reports whether the directory yields at least one name.
func (probe *FileSystemProbe) HasEntries(directoryPath string) bool {
	directoryHandle, openError := probe.fileSystem.Open(directoryPath)
	if openError != nil {
		return false
	}
	defer directoryHandle.Close()
	names, _ := directoryHandle.Readdirnames(1)
	return len(names) > 0
}

// Stat returns lstat information when the filesystem supports it.
func (probe *FileSystemProbe) Stat(path string) (Info, error) {
	fileInfo, statError := probe.lstat(path)
	if statError != nil {
		return Info{Type: EntryUnknown}, statError
	}
	return Info{Type: classifyMode(fileInfo.Mode()), ModTime: fileInfo.ModTime()}, nil
}

// ResolveSymlink follows the chain of links starting at path.
func (probe *FileSystemProbe) ResolveSymlink(path string) (string, error) {
	linkReader, supportsLinks := probe.fileSystem.(afero.LinkReader)
	if !supportsLinks {
		return "", ErrSymlinksUnsupported
	}
	currentPath := filepath.Clean(path)
	for hop := 0; hop < maxSymlinkHops; hop++ {
		fileInfo, statError := probe.lstat(currentPath)
		if statError != nil {
			return "", statError
		}
		if fileInfo.Mode()&os.ModeSymlink == 0 {
			return currentPath, nil
		}
		target, readError := linkReader.ReadlinkIfPossible(currentPath)
		if readError != nil {
			return "", fmt.Errorf(errorReadLinkFormat, currentPath, readError)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(currentPath), target)
		}
		currentPath = filepath.Clean(target)
	}
	return "", ErrTooManyLinks
}

// CheckPermission reports whether the current process may read or execute path.
func (probe *FileSystemProbe) CheckPermission(path string, permission Permission) bool {
	if _, isOperatingSystem := probe.fileSystem.(*afero.OsFs); isOperatingSystem {
		return checkOperatingSystemPermission(path, permission)
	}
	fileInfo, statError := probe.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return modeAllows(fileInfo.Mode(), permission)
}

func (probe *FileSystemProbe) lstat(path string) (os.FileInfo, error) {
	if lstater, supportsLstat := probe.fileSystem.(afero.Lstater); supportsLstat {
		fileInfo, _, statError := lstater.LstatIfPossible(path)
		return fileInfo, statError
	}
	return probe.fileSystem.Stat(path)
}

func classifyMode(mode os.FileMode) EntryType {
	switch {
	case mode&os.ModeSymlink != 0:
		return EntryLink
	case mode.IsDir():
		return EntryDirectory
	case mode.IsRegular():
		return EntryFile
	default:
		return EntryUnknown
	}
}

// modeAllows checks any of the owner, group or other bits.
func modeAllows(mode os.FileMode, permission Permission) bool {
	switch permission {
	case PermissionExecute:
		return mode.Perm()&0o111 != 0
	default:
		return mode.Perm()&0o444 != 0
	}
}

var _ Probe = (*FileSystemProbe)(nil)
