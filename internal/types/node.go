package types

import "time"

// Node is one entry of the in-memory tree. It is implemented only by
// *Directory, *File and *Link.
type Node interface {
	// Header exposes the fields shared by every variant.
	Header() *NodeHeader
	// Kind reports the variant as one of the NodeType constants.
	Kind() string
	isNode()
}

// NodeHeader holds the fields common to all node variants.
type NodeHeader struct {
	AbsolutePath string
	Name         string
	// GitStatus is the two-letter version control code, empty when clean or unknown.
	GitStatus string
}

// Header returns the header itself so that embedding variants satisfy Node.
func (header *NodeHeader) Header() *NodeHeader {
	return header
}

// Container is a node that can be expanded: a Directory, or a Link whose
// target is a directory.
type Container interface {
	Node
	// ScanPath is the path listed to populate the children.
	ScanPath() string
	IsOpen() bool
	SetOpen(open bool)
	ChildNodes() []Node
	SetChildNodes(children []Node)
	// Chain returns the collapsed single-child successor, nil when not grouped.
	Chain() Container
	SetChain(next Container)
}

// Directory is a directory entry.
type Directory struct {
	NodeHeader
	HasChildren bool
	Open        bool
	Children    []Node
	// GroupNext is the chain successor. It is never part of Children.
	GroupNext Container
}

// File is a regular file entry.
type File struct {
	NodeHeader
	Extension  string
	Executable bool
}

// Link is a symbolic link entry. Open, Children and GroupNext are only used
// when TargetIsDirectory is set.
type Link struct {
	NodeHeader
	// LinkTo is the resolved absolute target, empty when resolution failed.
	LinkTo string
	// LastModified is the modification time of the link itself.
	LastModified      time.Time
	TargetIsDirectory bool
	Open              bool
	Children          []Node
	GroupNext         Container
}

func (*Directory) isNode() {}
func (*File) isNode()      {}
func (*Link) isNode()      {}

func (*Directory) Kind() string { return NodeTypeDirectory }
func (*File) Kind() string      { return NodeTypeFile }
func (*Link) Kind() string      { return NodeTypeLink }

func (directory *Directory) ScanPath() string              { return directory.AbsolutePath }
func (directory *Directory) IsOpen() bool                  { return directory.Open }
func (directory *Directory) SetOpen(open bool)             { directory.Open = open }
func (directory *Directory) ChildNodes() []Node            { return directory.Children }
func (directory *Directory) SetChildNodes(children []Node) { directory.Children = children }
func (directory *Directory) Chain() Container              { return directory.GroupNext }
func (directory *Directory) SetChain(next Container)       { directory.GroupNext = next }

// ScanPath returns the resolved target so that children are listed through the link.
func (link *Link) ScanPath() string {
	if link.LinkTo != "" {
		return link.LinkTo
	}
	return link.AbsolutePath
}

func (link *Link) IsOpen() bool                  { return link.Open }
func (link *Link) SetOpen(open bool)             { link.Open = open }
func (link *Link) ChildNodes() []Node            { return link.Children }
func (link *Link) SetChildNodes(children []Node) { link.Children = children }
func (link *Link) Chain() Container              { return link.GroupNext }
func (link *Link) SetChain(next Container)       { link.GroupNext = next }

// AsContainer narrows a node to a Container. Links qualify only when their
// target resolved to a directory.
func AsContainer(node Node) (Container, bool) {
	switch typed := node.(type) {
	case *Directory:
		return typed, true
	case *Link:
		if typed.TargetIsDirectory {
			return typed, true
		}
	}
	return nil, false
}

// IsContainer reports whether the node sorts and renders as a container.
func IsContainer(node Node) bool {
	_, isContainer := AsContainer(node)
	return isContainer
}

// ChainTail follows GroupNext until the last chained container.
func ChainTail(container Container) Container {
	current := container
	for current.Chain() != nil {
		current = current.Chain()
	}
	return current
}

// ChainNames lists the names along a chain starting with the container itself.
func ChainNames(container Container) []string {
	names := []string{container.Header().Name}
	for next := container.Chain(); next != nil; next = next.Chain() {
		names = append(names, next.Header().Name)
	}
	return names
}
