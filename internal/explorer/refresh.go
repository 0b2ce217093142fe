package explorer

import (
	"path/filepath"
	"time"

	"github.com/temirov/dirtree/internal/fsprobe"
	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

// Refresh reconciles nodes, the previously built children of parent, against
// the current contents of directoryPath. Unchanged nodes keep their identity
// and expand state. On a scan failure nodes are returned unchanged together
// with the error.
func (explorer *Explorer) Refresh(nodes []types.Node, directoryPath string, parent types.Container, snapshot gitstatus.Snapshot) ([]types.Node, error) {
	currentPath := filepath.Clean(directoryPath)
	currentParent := parent
	for {
		parentIgnored := isIgnoredContainer(currentParent)
		for _, node := range nodes {
			header := node.Header()
			header.GitStatus = nodeGitStatus(header.AbsolutePath, snapshot, parentIgnored)
		}

		entries, scanError := explorer.scan(currentPath, snapshot)
		if scanError != nil {
			explorer.report(currentPath, scanError)
			return nodes, scanError
		}

		var severed types.Container
		if currentParent != nil && currentParent.Chain() != nil {
			chained := currentParent.Chain()
			chained.SetOpen(currentParent.IsOpen())
			chained.Header().GitStatus = currentParent.Header().GitStatus
			if entries.isOnly(chained.Header().Name) && !explorer.isStale(chained, entries) {
				currentParent = chained
				currentPath = filepath.Clean(chained.ScanPath())
				continue
			}
			currentParent.SetChain(nil)
			severed = chained
			nodes = nodesInDirectory(nodes, currentPath)
		}
		return explorer.reconcile(nodes, currentPath, entries, severed, snapshot, parentIgnored), nil
	}
}

// reconcile drops stale nodes, admits new names and restores comparator order.
func (explorer *Explorer) reconcile(nodes []types.Node, directoryPath string, entries listing, severed types.Container, snapshot gitstatus.Snapshot, parentIgnored bool) []types.Node {
	survivors := make([]types.Node, 0, len(entries.generation))
	knownNames := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		if explorer.isStale(node, entries) {
			continue
		}
		survivors = append(survivors, node)
		knownNames[node.Header().Name] = struct{}{}
	}

	var severedNode types.Node
	if severed != nil {
		_, duplicate := knownNames[severed.Header().Name]
		if !duplicate && !explorer.isStale(severed, entries) {
			severedNode = severed
			knownNames[severed.Header().Name] = struct{}{}
		}
	}

	inserted := false
	previousName := ""
	scanOrder := []struct {
		names     []string
		entryType fsprobe.EntryType
	}{
		{entries.directories, fsprobe.EntryDirectory},
		{entries.links, fsprobe.EntryLink},
		{entries.files, fsprobe.EntryFile},
	}
	for _, group := range scanOrder {
		for _, name := range group.names {
			if _, known := knownNames[name]; known {
				if severedNode == nil || name != severedNode.Header().Name {
					previousName = name
				}
				continue
			}
			node := explorer.admit(directoryPath, name, group.entryType, snapshot, parentIgnored)
			if node == nil {
				continue
			}
			survivors = insertAfter(survivors, previousName, node)
			knownNames[name] = struct{}{}
			previousName = name
			inserted = true
		}
	}

	if severedNode != nil {
		survivors = append([]types.Node{severedNode}, survivors...)
	}
	if inserted || severedNode != nil {
		SortNodes(survivors)
	}
	return survivors
}

// isStale reports whether a known node must be dropped: its name vanished,
// its type changed, or it is a link whose own modification time moved.
func (explorer *Explorer) isStale(node types.Node, entries listing) bool {
	scannedType, found := entries.generation[node.Header().Name]
	if !found || scannedType != entryTypeOf(node) {
		return true
	}
	link, isLink := node.(*types.Link)
	if !isLink {
		return false
	}
	var modificationTime time.Time
	if info, statError := explorer.probe.Stat(link.AbsolutePath); statError == nil {
		modificationTime = info.ModTime
	}
	return !modificationTime.Equal(link.LastModified)
}

func entryTypeOf(node types.Node) fsprobe.EntryType {
	switch node.(type) {
	case *types.Directory:
		return fsprobe.EntryDirectory
	case *types.Link:
		return fsprobe.EntryLink
	case *types.File:
		return fsprobe.EntryFile
	default:
		return fsprobe.EntryUnknown
	}
}

// insertAfter places node right after the node named previousName, or at the
// front when there is none.
func insertAfter(nodes []types.Node, previousName string, node types.Node) []types.Node {
	position := 0
	if previousName != "" {
		for index, candidate := range nodes {
			if candidate.Header().Name == previousName {
				position = index + 1
				break
			}
		}
	}
	nodes = append(nodes, nil)
	copy(nodes[position+1:], nodes[position:])
	nodes[position] = node
	return nodes
}

// nodesInDirectory keeps the nodes whose parent directory is directoryPath.
func nodesInDirectory(nodes []types.Node, directoryPath string) []types.Node {
	kept := make([]types.Node, 0, len(nodes))
	for _, node := range nodes {
		if filepath.Dir(node.Header().AbsolutePath) == directoryPath {
			kept = append(kept, node)
		}
	}
	return kept
}
