package explorer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/dirtree/internal/fsprobe"
	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

const (
	pathExtensionVariable       = "PATHEXT"
	defaultExecutableExtensions = ".COM;.EXE;.BAT;.CMD"
)

// Factory constructs node records from a directory path and entry name.
type Factory struct {
	probe                fsprobe.Probe
	windows              bool
	executableExtensions map[string]struct{}
}

// NewFactory returns a factory. On Windows executables are detected by
// extension; extensions defaults to the PATHEXT environment variable.
func NewFactory(probe fsprobe.Probe, windows bool, extensions []string) *Factory {
	if len(extensions) == 0 {
		pathExtensions := os.Getenv(pathExtensionVariable)
		if pathExtensions == "" {
			pathExtensions = defaultExecutableExtensions
		}
		extensions = strings.Split(pathExtensions, ";")
	}
	extensionSet := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
		if normalized != "" {
			extensionSet[normalized] = struct{}{}
		}
	}
	return &Factory{probe: probe, windows: windows, executableExtensions: extensionSet}
}

// MakeDirectory builds a Directory and peeks once for children.
func (factory *Factory) MakeDirectory(parentPath string, name string, snapshot gitstatus.Snapshot, parentIgnored bool) *types.Directory {
	absolutePath := filepath.Join(parentPath, name)
	return &types.Directory{
		NodeHeader:  newHeader(absolutePath, name, snapshot, parentIgnored),
		HasChildren: factory.probe.HasEntries(absolutePath),
	}
}

// MakeFile builds a File with its extension and executable flag.
func (factory *Factory) MakeFile(parentPath string, name string, snapshot gitstatus.Snapshot, parentIgnored bool) *types.File {
	absolutePath := filepath.Join(parentPath, name)
	extension := FileExtension(name)
	return &types.File{
		NodeHeader: newHeader(absolutePath, name, snapshot, parentIgnored),
		Extension:  extension,
		Executable: factory.isExecutable(absolutePath, extension),
	}
}

// MakeLink builds a Link. A failed resolution leaves LinkTo empty; the node
// is still returned so that callers decide whether to keep it.
func (factory *Factory) MakeLink(parentPath string, name string, snapshot gitstatus.Snapshot, parentIgnored bool) *types.Link {
	absolutePath := filepath.Join(parentPath, name)
	link := &types.Link{NodeHeader: newHeader(absolutePath, name, snapshot, parentIgnored)}
	if info, statError := factory.probe.Stat(absolutePath); statError == nil {
		link.LastModified = info.ModTime
	}
	target, resolveError := factory.probe.ResolveSymlink(absolutePath)
	if resolveError != nil {
		return link
	}
	link.LinkTo = target
	if targetInfo, statError := factory.probe.Stat(target); statError == nil && targetInfo.Type == fsprobe.EntryDirectory {
		link.TargetIsDirectory = true
		link.Children = []types.Node{}
	}
	return link
}

// IsReadable reports whether a directory may be listed and entered.
func (factory *Factory) IsReadable(directoryPath string) bool {
	return factory.probe.CheckPermission(directoryPath, fsprobe.PermissionRead) &&
		factory.probe.CheckPermission(directoryPath, fsprobe.PermissionExecute)
}

func (factory *Factory) isExecutable(absolutePath string, extension string) bool {
	if factory.windows {
		_, found := factory.executableExtensions[strings.ToLower(lastExtension(extension))]
		return found
	}
	return factory.probe.CheckPermission(absolutePath, fsprobe.PermissionExecute)
}

// FileExtension returns everything after the first dot that has at least one
// non-dot character before it: "a.tar.gz" yields "tar.gz", ".bashrc" yields "".
func FileExtension(name string) string {
	for index := 1; index < len(name)-1; index++ {
		if name[index] == '.' && name[index-1] != '.' {
			return name[index+1:]
		}
	}
	return ""
}

func lastExtension(extension string) string {
	if separatorIndex := strings.LastIndexByte(extension, '.'); separatorIndex >= 0 {
		return extension[separatorIndex+1:]
	}
	return extension
}

// nodeGitStatus resolves a status, forcing the ignored sentinel under an ignored parent.
func nodeGitStatus(absolutePath string, snapshot gitstatus.Snapshot, parentIgnored bool) string {
	if parentIgnored {
		return types.GitStatusIgnored
	}
	return snapshot.Lookup(absolutePath)
}

func newHeader(absolutePath string, name string, snapshot gitstatus.Snapshot, parentIgnored bool) types.NodeHeader {
	return types.NodeHeader{
		AbsolutePath: absolutePath,
		Name:         name,
		GitStatus:    nodeGitStatus(absolutePath, snapshot, parentIgnored),
	}
}
