package gitstatus

import (
	"strconv"
	"strings"
)

const (
	porcelainStatusWidth = 2
	porcelainPathOffset  = 3
	renameSeparator      = " -> "
)

// ParsePorcelain converts `git status --porcelain=v1` output into a Snapshot
// keyed by absolute paths under root. Renames and copies are recorded at
// their new path and directories reported with a trailing slash go into the
// directory map.
func ParsePorcelain(root string, output []byte) Snapshot {
	snapshot := NewSnapshot()
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) <= porcelainPathOffset {
			continue
		}
		statusCode := line[:porcelainStatusWidth]
		relativePath := line[porcelainPathOffset:]
		if strings.ContainsAny(statusCode, "RC") {
			if separatorIndex := strings.LastIndex(relativePath, renameSeparator); separatorIndex >= 0 {
				relativePath = relativePath[separatorIndex+len(renameSeparator):]
			}
		}
		snapshot.record(root, unquotePath(relativePath), statusCode)
	}
	return snapshot
}

// unquotePath removes the C-style quoting git applies to unusual file names.
func unquotePath(path string) string {
	if len(path) < 2 || !strings.HasPrefix(path, `"`) || !strings.HasSuffix(path, `"`) {
		return path
	}
	unquoted, unquoteError := strconv.Unquote(path)
	if unquoteError != nil {
		return path
	}
	return unquoted
}
