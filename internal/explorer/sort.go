package explorer

import (
	"sort"
	"strings"

	"github.com/temirov/dirtree/internal/types"
)

// SortNodes orders siblings: containers first, then case-insensitive name.
func SortNodes(nodes []types.Node) {
	sort.SliceStable(nodes, func(left, right int) bool {
		return Less(nodes[left], nodes[right])
	})
}

// Less is the sibling comparator used by SortNodes.
func Less(left types.Node, right types.Node) bool {
	leftContainer := types.IsContainer(left)
	rightContainer := types.IsContainer(right)
	if leftContainer != rightContainer {
		return leftContainer
	}
	return strings.ToLower(left.Header().Name) < strings.ToLower(right.Header().Name)
}
