// Package filter decides which paths are hidden from the tree.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	extensionGlobPrefix = "*"
	dotfilePrefix       = "."

	// excludeMatchTimeout bounds a single exclude pattern evaluation.
	excludeMatchTimeout = 100 * time.Millisecond

	errorCompileExcludeFormat = "compiling exclude pattern %q: %w"
)

// Rules configures a PathFilter.
type Rules struct {
	// FilterDotfiles hides entries whose base name starts with a dot.
	FilterDotfiles bool
	// FilterIgnored enables the custom ignore names and, together with
	// FilterGitIgnored, the version control ignore status.
	FilterIgnored    bool
	FilterGitIgnored bool
	// ExcludePatterns are regular expressions searched within the absolute
	// path. A match keeps the path visible regardless of every other rule.
	ExcludePatterns []string
	// CustomIgnoreNames holds root-relative paths, base names and "*.ext" globs.
	CustomIgnoreNames []string
}

// PathFilter evaluates Rules for one tree root.
type PathFilter struct {
	rootPath        string
	rules           Rules
	excludeMatchers []*regexp2.Regexp
	ignoreSet       map[string]struct{}
}

// New compiles the rules for the tree rooted at rootPath.
func New(rootPath string, rules Rules) (*PathFilter, error) {
	excludeMatchers := make([]*regexp2.Regexp, 0, len(rules.ExcludePatterns))
	for _, pattern := range utils.DeduplicatePatterns(rules.ExcludePatterns) {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		matcher, compileError := regexp2.Compile(trimmedPattern, regexp2.None)
		if compileError != nil {
			return nil, fmt.Errorf(errorCompileExcludeFormat, trimmedPattern, compileError)
		}
		matcher.MatchTimeout = excludeMatchTimeout
		excludeMatchers = append(excludeMatchers, matcher)
	}

	ignoreSet := make(map[string]struct{}, len(rules.CustomIgnoreNames))
	for _, name := range rules.CustomIgnoreNames {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		ignoreSet[filepath.ToSlash(trimmedName)] = struct{}{}
	}

	return &PathFilter{
		rootPath:        rootPath,
		rules:           rules,
		excludeMatchers: excludeMatchers,
		ignoreSet:       ignoreSet,
	}, nil
}

// Rules returns the rules the filter was built with.
func (pathFilter *PathFilter) Rules() Rules {
	return pathFilter.rules
}

// IsExcluded reports whether path matches an exclude pattern.
func (pathFilter *PathFilter) IsExcluded(path string) bool {
	for _, matcher := range pathFilter.excludeMatchers {
		isMatched, matchError := matcher.MatchString(path)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

// ShouldIgnore applies the exclude, dotfile and custom ignore rules.
func (pathFilter *PathFilter) ShouldIgnore(path string) bool {
	if pathFilter.IsExcluded(path) {
		return false
	}

	baseName := filepath.Base(path)
	if pathFilter.rules.FilterDotfiles && strings.HasPrefix(baseName, dotfilePrefix) {
		return true
	}
	if !pathFilter.rules.FilterIgnored {
		return false
	}

	relativePath := utils.RelativePathOrSelf(path, pathFilter.rootPath)
	if pathFilter.inIgnoreSet(relativePath) || pathFilter.inIgnoreSet(baseName) {
		return true
	}
	extension := filepath.Ext(path)
	if len(extension) > len(dotfilePrefix) && len(extension) < len(baseName) {
		return pathFilter.inIgnoreSet(extensionGlobPrefix + extension)
	}
	return false
}

// ShouldIgnoreGit reports whether version control marks path as ignored and
// both ignore filters are enabled.
func (pathFilter *PathFilter) ShouldIgnoreGit(path string, snapshot gitstatus.Snapshot) bool {
	if !pathFilter.rules.FilterIgnored || !pathFilter.rules.FilterGitIgnored {
		return false
	}
	if pathFilter.IsExcluded(path) {
		return false
	}
	return snapshot.IsIgnored(path)
}

// Skip combines ShouldIgnore and ShouldIgnoreGit.
func (pathFilter *PathFilter) Skip(path string, snapshot gitstatus.Snapshot) bool {
	return pathFilter.ShouldIgnore(path) || pathFilter.ShouldIgnoreGit(path, snapshot)
}

func (pathFilter *PathFilter) inIgnoreSet(candidate string) bool {
	_, found := pathFilter.ignoreSet[candidate]
	return found
}
