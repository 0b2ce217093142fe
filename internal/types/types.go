// Package types defines every cross-package data structure used by the dirtree CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeLink      = "link"

	FormatRaw  = "raw"
	FormatJSON = "json"

	// GitStatusIgnored is the status code version control reports for ignored paths.
	// It propagates to every descendant of an ignored directory.
	GitStatusIgnored = "!!"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeOutputNode represents a visible node of a directory tree returned by the tree command.
type TreeOutputNode struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	GitStatus string `json:"gitStatus,omitempty"`
	LinkTo    string `json:"linkTo,omitempty"`
	// LastModified is the formatted modification time of a link itself.
	LastModified string `json:"lastModified,omitempty"`
	Extension    string `json:"extension,omitempty"`
	Executable   bool   `json:"executable,omitempty"`
	Open         bool   `json:"open,omitempty"`
	// HasChildren is set for containers that hold entries, open or not.
	HasChildren bool              `json:"hasChildren,omitempty"`
	Chain       []string          `json:"chain,omitempty"`
	Children    []*TreeOutputNode `json:"children,omitempty"`
}
