// Package output renders explored trees as raw text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/dirtree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	chainSeparator    = "/"
	containerSuffix   = "/"
	executableSuffix  = "*"
	collapsedSuffix   = " …"
	linkArrowFormat   = "%s -> %s"
	gitStatusFormat   = " [%s]"
	brokenLinkTarget  = "?"
	unsupportedFormat = "unsupported output format %q"
)

// Render writes the trees in the requested format.
func Render(writer io.Writer, format string, trees []*types.TreeOutputNode) error {
	switch format {
	case types.FormatRaw, "":
		WriteTreesRaw(writer, trees)
		return nil
	case types.FormatJSON:
		rendered, renderError := RenderJSON(trees)
		if renderError != nil {
			return renderError
		}
		_, writeError := fmt.Fprintln(writer, rendered)
		return writeError
	default:
		return fmt.Errorf(unsupportedFormat, format)
	}
}

// RenderJSON marshals a single tree as an object and several trees as an array.
func RenderJSON(trees []*types.TreeOutputNode) (string, error) {
	if len(trees) == 0 {
		return "[]", nil
	}
	if len(trees) == 1 {
		encoded, jsonEncodeError := json.MarshalIndent(trees[0], indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	}
	encoded, jsonEncodeError := json.MarshalIndent(trees, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// WriteTreesRaw renders each tree separated by a blank line.
func WriteTreesRaw(writer io.Writer, trees []*types.TreeOutputNode) {
	for index, tree := range trees {
		if index > 0 {
			fmt.Fprintln(writer)
		}
		WriteTreeRaw(writer, tree)
	}
}

// WriteTreeRaw renders a directory tree to the provided writer.
func WriteTreeRaw(writer io.Writer, node *types.TreeOutputNode) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", true, true)
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, isRoot bool, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	label := nodeLabel(node)
	if isRoot {
		label = node.Path
	}
	fmt.Fprintf(writer, "%s%s\n", linePrefix, label)
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1)
	}
}

func nodeLabel(node *types.TreeOutputNode) string {
	var label string
	switch node.Type {
	case types.NodeTypeLink:
		target := node.LinkTo
		if target == "" {
			target = brokenLinkTarget
		}
		label = fmt.Sprintf(linkArrowFormat, node.Name, target)
		if len(node.Chain) > 1 {
			label += chainSeparator + strings.Join(node.Chain[1:], chainSeparator)
		}
	case types.NodeTypeDirectory:
		label = node.Name
		if len(node.Chain) > 0 {
			label = strings.Join(node.Chain, chainSeparator)
		}
		label += containerSuffix
	default:
		label = node.Name
		if node.Executable {
			label += executableSuffix
		}
	}
	if node.HasChildren && !node.Open {
		label += collapsedSuffix
	}
	if node.GitStatus != "" {
		label += fmt.Sprintf(gitStatusFormat, node.GitStatus)
	}
	return label
}
