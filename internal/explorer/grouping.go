package explorer

import (
	"path/filepath"

	"github.com/temirov/dirtree/internal/fsprobe"
)

// shouldGroup reports whether a listing collapses into its single child:
// exactly one directory and nothing else, or exactly one link to a directory
// and nothing else.
func shouldGroup(directoryPath string, entries listing, probe fsprobe.Probe) bool {
	if len(entries.files) != 0 {
		return false
	}
	if len(entries.directories) == 1 && len(entries.links) == 0 {
		return true
	}
	if len(entries.directories) != 0 || len(entries.links) != 1 {
		return false
	}
	target, resolveError := probe.ResolveSymlink(filepath.Join(directoryPath, entries.links[0]))
	if resolveError != nil {
		return false
	}
	targetInfo, statError := probe.Stat(target)
	return statError == nil && targetInfo.Type == fsprobe.EntryDirectory
}
