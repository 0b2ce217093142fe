package explorer

import (
	"path/filepath"

	"github.com/temirov/dirtree/internal/fsprobe"
	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

// Explore builds the children of directoryPath from scratch. When parent is
// set and grouping applies, single-child levels are folded into parent's
// chain and the returned nodes are the children of the chain tail.
func (explorer *Explorer) Explore(directoryPath string, parent types.Container, snapshot gitstatus.Snapshot) ([]types.Node, error) {
	currentPath := filepath.Clean(directoryPath)
	currentParent := parent
	if currentParent != nil {
		currentParent.SetChain(nil)
	}
	visitedPaths := map[string]struct{}{currentPath: {}}
	for {
		entries, scanError := explorer.scan(currentPath, snapshot)
		if scanError != nil {
			explorer.report(currentPath, scanError)
			return nil, scanError
		}
		parentIgnored := isIgnoredContainer(currentParent)
		if currentParent != nil && explorer.groupEmpty && shouldGroup(currentPath, entries, explorer.probe) {
			chained := explorer.chainCandidate(currentPath, entries, snapshot, parentIgnored)
			if chained != nil {
				if _, visited := visitedPaths[chained.ScanPath()]; !visited {
					currentParent.SetChain(chained)
					chained.Header().GitStatus = currentParent.Header().GitStatus
					currentParent = chained
					currentPath = chained.ScanPath()
					visitedPaths[currentPath] = struct{}{}
					continue
				}
			}
		}
		return explorer.buildLevel(currentPath, entries, snapshot, parentIgnored), nil
	}
}

// chainCandidate builds the single child a grouped level folds into, or nil
// when it cannot be entered.
func (explorer *Explorer) chainCandidate(directoryPath string, entries listing, snapshot gitstatus.Snapshot, parentIgnored bool) types.Container {
	if len(entries.directories) == 1 {
		if !explorer.factory.IsReadable(filepath.Join(directoryPath, entries.directories[0])) {
			return nil
		}
		return explorer.factory.MakeDirectory(directoryPath, entries.directories[0], snapshot, parentIgnored)
	}
	link := explorer.factory.MakeLink(directoryPath, entries.links[0], snapshot, parentIgnored)
	if link.LinkTo == "" || !link.TargetIsDirectory || !explorer.factory.IsReadable(link.LinkTo) {
		return nil
	}
	return link
}

func (explorer *Explorer) buildLevel(directoryPath string, entries listing, snapshot gitstatus.Snapshot, parentIgnored bool) []types.Node {
	nodes := make([]types.Node, 0, len(entries.generation))
	for _, name := range entries.directories {
		if node := explorer.admit(directoryPath, name, fsprobe.EntryDirectory, snapshot, parentIgnored); node != nil {
			nodes = append(nodes, node)
		}
	}
	for _, name := range entries.links {
		if node := explorer.admit(directoryPath, name, fsprobe.EntryLink, snapshot, parentIgnored); node != nil {
			nodes = append(nodes, node)
		}
	}
	for _, name := range entries.files {
		if node := explorer.admit(directoryPath, name, fsprobe.EntryFile, snapshot, parentIgnored); node != nil {
			nodes = append(nodes, node)
		}
	}
	SortNodes(nodes)
	return nodes
}

// admit constructs a node for a scanned entry. Unreadable directories and
// unresolved links yield nil; files are always admitted.
func (explorer *Explorer) admit(directoryPath string, name string, entryType fsprobe.EntryType, snapshot gitstatus.Snapshot, parentIgnored bool) types.Node {
	switch entryType {
	case fsprobe.EntryDirectory:
		if !explorer.factory.IsReadable(filepath.Join(directoryPath, name)) {
			return nil
		}
		return explorer.factory.MakeDirectory(directoryPath, name, snapshot, parentIgnored)
	case fsprobe.EntryLink:
		link := explorer.factory.MakeLink(directoryPath, name, snapshot, parentIgnored)
		if link.LinkTo == "" {
			return nil
		}
		return link
	case fsprobe.EntryFile:
		return explorer.factory.MakeFile(directoryPath, name, snapshot, parentIgnored)
	default:
		return nil
	}
}
