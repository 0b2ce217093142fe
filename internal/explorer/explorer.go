// Package explorer builds and incrementally reconciles the in-memory directory tree.
//
// An Explorer is not safe for concurrent use on overlapping subtrees: every
// Explore or Refresh call runs to completion with blocking filesystem calls and
// expects to be the only reconciliation active on the nodes it receives.
package explorer

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/filter"
	"github.com/temirov/dirtree/internal/fsprobe"
	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

const (
	// errorReadDirectoryFormat wraps ErrDirectoryUnreadable with the failing path and cause.
	errorReadDirectoryFormat = "%w %s: %w"

	diagnosticReadDirectoryMessage = "unable to read directory"
	diagnosticPathField            = "path"
)

// ErrDirectoryUnreadable reports that the directory being explored or
// refreshed could not be listed. Unreadable child entries are never reported.
var ErrDirectoryUnreadable = errors.New("directory unreadable:")

// Settings configures an Explorer. Zero values select the operating system
// probe, a no-op logger and the platform of the running binary.
type Settings struct {
	Filter *filter.PathFilter
	Probe  fsprobe.Probe
	// GroupEmpty folds chains of single-child directories into one node.
	GroupEmpty bool
	// Logger receives one diagnostic per root-level scan failure.
	Logger *zap.Logger
	// Windows selects extension based executable detection.
	Windows bool
	// ExecutableExtensions overrides the PATHEXT derived set used on Windows.
	ExecutableExtensions []string
}

// Explorer carries the per-root context shared by Explore and Refresh.
type Explorer struct {
	pathFilter *filter.PathFilter
	probe      fsprobe.Probe
	factory    *Factory
	groupEmpty bool
	logger     *zap.Logger
}

// New constructs an Explorer from settings.
func New(settings Settings) *Explorer {
	probe := settings.Probe
	if probe == nil {
		probe = fsprobe.NewOSProbe()
	}
	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pathFilter := settings.Filter
	if pathFilter == nil {
		pathFilter, _ = filter.New(string(filepath.Separator), filter.Rules{})
	}
	return &Explorer{
		pathFilter: pathFilter,
		probe:      probe,
		factory:    NewFactory(probe, settings.Windows, settings.ExecutableExtensions),
		groupEmpty: settings.GroupEmpty,
		logger:     logger,
	}
}

// IsWindowsPlatform reports whether the running binary targets Windows.
func IsWindowsPlatform() bool {
	return runtime.GOOS == "windows"
}

// Factory exposes the node factory used by the explorer.
func (explorer *Explorer) Factory() *Factory {
	return explorer.factory
}

// listing is one filtered directory scan, classified by entry type in scan order.
type listing struct {
	directories []string
	links       []string
	files       []string
	// generation maps every surviving name to its scanned type.
	generation map[string]fsprobe.EntryType
}

func (entries listing) contains(name string) bool {
	_, found := entries.generation[name]
	return found
}

// isOnly reports whether name is the single surviving entry.
func (entries listing) isOnly(name string) bool {
	return len(entries.generation) == 1 && entries.contains(name)
}

// scan lists directoryPath once, dropping filtered entries before classification.
func (explorer *Explorer) scan(directoryPath string, snapshot gitstatus.Snapshot) (listing, error) {
	scannedEntries, listError := explorer.probe.ListEntries(directoryPath)
	if listError != nil {
		return listing{}, fmt.Errorf(errorReadDirectoryFormat, ErrDirectoryUnreadable, directoryPath, listError)
	}
	entries := listing{generation: make(map[string]fsprobe.EntryType, len(scannedEntries))}
	for _, scannedEntry := range scannedEntries {
		absolutePath := filepath.Join(directoryPath, scannedEntry.Name)
		if explorer.pathFilter.Skip(absolutePath, snapshot) {
			continue
		}
		entryType := scannedEntry.Type
		if entryType == fsprobe.EntryUnknown {
			if info, statError := explorer.probe.Stat(absolutePath); statError == nil {
				entryType = info.Type
			}
		}
		switch entryType {
		case fsprobe.EntryDirectory:
			entries.directories = append(entries.directories, scannedEntry.Name)
		case fsprobe.EntryLink:
			entries.links = append(entries.links, scannedEntry.Name)
		case fsprobe.EntryFile:
			entries.files = append(entries.files, scannedEntry.Name)
		default:
			continue
		}
		entries.generation[scannedEntry.Name] = entryType
	}
	return entries, nil
}

// report emits the single user-visible diagnostic for a root scan failure.
func (explorer *Explorer) report(directoryPath string, scanError error) {
	explorer.logger.Error(diagnosticReadDirectoryMessage, zap.String(diagnosticPathField, directoryPath), zap.Error(scanError))
}

func isIgnoredContainer(parent types.Container) bool {
	return parent != nil && parent.Header().GitStatus == types.GitStatusIgnored
}
