// Package gitstatus captures version control status as path-keyed maps.
package gitstatus

import (
	"path/filepath"
	"strings"

	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

// Snapshot maps absolute paths to two-letter status codes. Files and
// directories are kept in separate maps; directory entries take priority.
type Snapshot struct {
	Files       map[string]string
	Directories map[string]string
}

// NewSnapshot returns a snapshot with initialized maps.
func NewSnapshot() Snapshot {
	return Snapshot{
		Files:       make(map[string]string),
		Directories: make(map[string]string),
	}
}

// Lookup returns the status recorded for path, preferring the directory map.
func (snapshot Snapshot) Lookup(path string) string {
	if status, found := snapshot.Directories[path]; found {
		return status
	}
	return snapshot.Files[path]
}

// IsIgnored reports whether path is marked ignored by version control.
func (snapshot Snapshot) IsIgnored(path string) bool {
	return snapshot.Lookup(path) == types.GitStatusIgnored
}

// IsEmpty reports whether the snapshot carries no status at all.
func (snapshot Snapshot) IsEmpty() bool {
	return len(snapshot.Files) == 0 && len(snapshot.Directories) == 0
}

// record stores a status for a path relative to root. Non-ignored statuses
// mark every ancestor directory up to root unless it already has a status.
func (snapshot Snapshot) record(root string, relativePath string, status string) {
	isDirectory := strings.HasSuffix(relativePath, "/")
	trimmedPath := strings.TrimSuffix(relativePath, "/")
	if trimmedPath == "" {
		return
	}
	absolutePath := filepath.Join(root, filepath.FromSlash(trimmedPath))
	if isDirectory {
		snapshot.Directories[absolutePath] = status
	} else {
		snapshot.Files[absolutePath] = status
	}
	if status == types.GitStatusIgnored {
		return
	}
	cleanRoot := filepath.Clean(root)
	for ancestor := filepath.Dir(absolutePath); ancestor != cleanRoot && utils.IsWithin(ancestor, cleanRoot); ancestor = filepath.Dir(ancestor) {
		if _, found := snapshot.Directories[ancestor]; !found {
			snapshot.Directories[ancestor] = status
		}
	}
}
