package explorer

import (
	"path/filepath"

	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

// UnlimitedDepth expands every reachable container.
const UnlimitedDepth = -1

// Tree owns a root directory and drives explore and refresh for the
// containers a host has expanded.
type Tree struct {
	explorer *Explorer
	Root     *types.Directory
	snapshot gitstatus.Snapshot
}

// Open explores rootPath and returns a tree whose root is already expanded.
// The root itself is never folded into a chain.
func (explorer *Explorer) Open(rootPath string, snapshot gitstatus.Snapshot) (*Tree, error) {
	cleanRoot := filepath.Clean(rootPath)
	root := explorer.factory.MakeDirectory(filepath.Dir(cleanRoot), filepath.Base(cleanRoot), snapshot, false)
	root.AbsolutePath = cleanRoot
	root.Open = true
	children, exploreError := explorer.Explore(cleanRoot, nil, snapshot)
	if exploreError != nil {
		return nil, exploreError
	}
	root.Children = children
	return &Tree{explorer: explorer, Root: root, snapshot: snapshot}, nil
}

// Snapshot returns the status snapshot the tree was last built or reloaded with.
func (tree *Tree) Snapshot() gitstatus.Snapshot {
	return tree.snapshot
}

// Expand opens a container, exploring it on first use and refreshing it afterwards.
func (tree *Tree) Expand(container types.Container) error {
	container.SetOpen(true)
	var (
		children    []types.Node
		expandError error
	)
	if len(container.ChildNodes()) == 0 {
		children, expandError = tree.explorer.Explore(container.ScanPath(), container, tree.snapshot)
	} else {
		children, expandError = tree.explorer.Refresh(container.ChildNodes(), container.ScanPath(), container, tree.snapshot)
	}
	if expandError != nil {
		return expandError
	}
	container.SetChildNodes(children)
	return nil
}

// Collapse closes a container and keeps its cached children.
func (tree *Tree) Collapse(container types.Container) {
	container.SetOpen(false)
}

// Reload reconciles the root and every open container against the disk and
// the provided snapshot. A failing container keeps its children and the walk
// continues with its siblings; the first failure is returned.
func (tree *Tree) Reload(snapshot gitstatus.Snapshot) error {
	tree.snapshot = snapshot
	tree.Root.GitStatus = snapshot.Lookup(tree.Root.AbsolutePath)
	children, reloadError := tree.explorer.Refresh(tree.Root.Children, tree.Root.AbsolutePath, nil, snapshot)
	tree.Root.Children = children
	if reloadError != nil {
		return reloadError
	}
	pending := openContainers(children)
	var firstError error
	for len(pending) > 0 {
		container := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		refreshed, refreshError := tree.explorer.Refresh(container.ChildNodes(), container.ScanPath(), container, snapshot)
		container.SetChildNodes(refreshed)
		if refreshError != nil {
			if firstError == nil {
				firstError = refreshError
			}
			continue
		}
		pending = append(pending, openContainers(refreshed)...)
	}
	return firstError
}

// ExpandToDepth opens containers breadth first so that depth levels below the
// root are visible. UnlimitedDepth opens everything; a container whose scan
// path was already opened is skipped so that link cycles terminate.
func (tree *Tree) ExpandToDepth(depth int) error {
	if depth == 0 {
		tree.Root.Open = false
		return nil
	}
	openedPaths := map[string]struct{}{tree.Root.AbsolutePath: {}}
	level := containersOf(tree.Root.Children)
	var firstError error
	for currentDepth := 1; len(level) > 0 && (depth == UnlimitedDepth || currentDepth < depth); currentDepth++ {
		var nextLevel []types.Container
		for _, container := range level {
			if _, opened := openedPaths[filepath.Clean(container.ScanPath())]; opened {
				continue
			}
			if expandError := tree.Expand(container); expandError != nil {
				container.SetOpen(false)
				if firstError == nil {
					firstError = expandError
				}
				continue
			}
			for chained := types.Container(container); chained != nil; chained = chained.Chain() {
				openedPaths[filepath.Clean(chained.ScanPath())] = struct{}{}
			}
			nextLevel = append(nextLevel, containersOf(container.ChildNodes())...)
		}
		level = nextLevel
	}
	return firstError
}

// Find returns the visible node at absolutePath. Members of a collapsed chain
// resolve to themselves; nodes below a closed container are not visible.
func (tree *Tree) Find(absolutePath string) (types.Node, bool) {
	target := filepath.Clean(absolutePath)
	pending := []types.Node{tree.Root}
	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if node.Header().AbsolutePath == target {
			return node, true
		}
		container, isContainer := types.AsContainer(node)
		if !isContainer {
			continue
		}
		for chained := container.Chain(); chained != nil; chained = chained.Chain() {
			if chained.Header().AbsolutePath == target {
				return chained, true
			}
		}
		if container.IsOpen() {
			pending = append(pending, container.ChildNodes()...)
		}
	}
	return nil, false
}

func containersOf(nodes []types.Node) []types.Container {
	var containers []types.Container
	for _, node := range nodes {
		if container, isContainer := types.AsContainer(node); isContainer {
			containers = append(containers, container)
		}
	}
	return containers
}

func openContainers(nodes []types.Node) []types.Container {
	var containers []types.Container
	for _, container := range containersOf(nodes) {
		if container.IsOpen() {
			containers = append(containers, container)
		}
	}
	return containers
}
