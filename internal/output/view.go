package output

import (
	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

// BuildView converts the visible part of a node tree into output nodes.
// Children are emitted only for open containers; a grouped chain is reported
// on its head node.
func BuildView(root *types.Directory) *types.TreeOutputNode {
	if root == nil {
		return nil
	}
	return buildNode(root)
}

func buildNode(node types.Node) *types.TreeOutputNode {
	header := node.Header()
	outputNode := &types.TreeOutputNode{
		Path:      header.AbsolutePath,
		Name:      header.Name,
		Type:      node.Kind(),
		GitStatus: header.GitStatus,
	}
	switch typed := node.(type) {
	case *types.File:
		outputNode.Extension = typed.Extension
		outputNode.Executable = typed.Executable
		return outputNode
	case *types.Directory:
		outputNode.HasChildren = typed.HasChildren || len(typed.Children) > 0 || typed.GroupNext != nil
	case *types.Link:
		outputNode.LinkTo = typed.LinkTo
		outputNode.LastModified = utils.FormatTimestamp(typed.LastModified)
		outputNode.HasChildren = typed.TargetIsDirectory
	}

	container, isContainer := types.AsContainer(node)
	if !isContainer {
		return outputNode
	}
	if container.Chain() != nil {
		outputNode.Chain = types.ChainNames(container)
	}
	outputNode.Open = container.IsOpen()
	if !outputNode.Open {
		return outputNode
	}
	for _, child := range container.ChildNodes() {
		outputNode.Children = append(outputNode.Children, buildNode(child))
	}
	return outputNode
}
