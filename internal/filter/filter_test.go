package filter_test

import (
	"path/filepath"
	"testing"

	"github.com/temirov/dirtree/internal/filter"
	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

type shouldIgnoreTestCase struct {
	name         string
	rules        filter.Rules
	relativePath string
	expectIgnore bool
}

func newTestFilter(testingHandle *testing.T, rootPath string, rules filter.Rules) *filter.PathFilter {
	testingHandle.Helper()
	pathFilter, filterError := filter.New(rootPath, rules)
	if filterError != nil {
		testingHandle.Fatalf("filter.New error: %v", filterError)
	}
	return pathFilter
}

// TestShouldIgnore verifies rule precedence for dotfiles, ignore names and exclusions.
func TestShouldIgnore(testingHandle *testing.T) {
	rootPath := filepath.Join(string(filepath.Separator), "project")
	testCases := []shouldIgnoreTestCase{
		{
			name:         "dotfile_hidden_when_filtered",
			rules:        filter.Rules{FilterDotfiles: true},
			relativePath: ".env",
			expectIgnore: true,
		},
		{
			name:         "dotfile_visible_when_not_filtered",
			rules:        filter.Rules{},
			relativePath: ".env",
			expectIgnore: false,
		},
		{
			name:         "ignore_names_inactive_without_filter_ignored",
			rules:        filter.Rules{CustomIgnoreNames: []string{"node_modules"}},
			relativePath: "node_modules",
			expectIgnore: false,
		},
		{
			name:         "base_name_match",
			rules:        filter.Rules{FilterIgnored: true, CustomIgnoreNames: []string{"node_modules"}},
			relativePath: "web/node_modules",
			expectIgnore: true,
		},
		{
			name:         "relative_path_match",
			rules:        filter.Rules{FilterIgnored: true, CustomIgnoreNames: []string{"web/dist"}},
			relativePath: "web/dist",
			expectIgnore: true,
		},
		{
			name:         "relative_path_does_not_match_other_parent",
			rules:        filter.Rules{FilterIgnored: true, CustomIgnoreNames: []string{"web/dist"}},
			relativePath: "api/dist",
			expectIgnore: false,
		},
		{
			name:         "extension_glob_match",
			rules:        filter.Rules{FilterIgnored: true, CustomIgnoreNames: []string{"*.log"}},
			relativePath: "logs/run.log",
			expectIgnore: true,
		},
		{
			name:         "extension_glob_other_extension",
			rules:        filter.Rules{FilterIgnored: true, CustomIgnoreNames: []string{"*.log"}},
			relativePath: "logs/run.txt",
			expectIgnore: false,
		},
		{
			name: "exclude_beats_dotfile_filter",
			rules: filter.Rules{
				FilterDotfiles:  true,
				ExcludePatterns: []string{`\.github`},
			},
			relativePath: ".github",
			expectIgnore: false,
		},
		{
			name: "exclude_beats_ignore_names",
			rules: filter.Rules{
				FilterIgnored:     true,
				CustomIgnoreNames: []string{"*.log"},
				ExcludePatterns:   []string{`keep\.log$`},
			},
			relativePath: "keep.log",
			expectIgnore: false,
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			pathFilter := newTestFilter(testingHandle, rootPath, testCase.rules)
			candidatePath := filepath.Join(rootPath, filepath.FromSlash(testCase.relativePath))
			if ignored := pathFilter.ShouldIgnore(candidatePath); ignored != testCase.expectIgnore {
				testingHandle.Fatalf("ShouldIgnore(%s) = %v, want %v", candidatePath, ignored, testCase.expectIgnore)
			}
		})
	}
}

// TestShouldIgnoreGit verifies that version control ignores apply only with both filters enabled.
func TestShouldIgnoreGit(testingHandle *testing.T) {
	rootPath := filepath.Join(string(filepath.Separator), "project")
	ignoredPath := filepath.Join(rootPath, "build")
	snapshot := gitstatus.NewSnapshot()
	snapshot.Directories[ignoredPath] = types.GitStatusIgnored

	bothEnabled := newTestFilter(testingHandle, rootPath, filter.Rules{FilterIgnored: true, FilterGitIgnored: true})
	if !bothEnabled.ShouldIgnoreGit(ignoredPath, snapshot) {
		testingHandle.Fatalf("expected ignored path to be hidden")
	}
	if !bothEnabled.Skip(ignoredPath, snapshot) {
		testingHandle.Fatalf("expected Skip to include version control ignores")
	}

	gitOnly := newTestFilter(testingHandle, rootPath, filter.Rules{FilterGitIgnored: true})
	if gitOnly.ShouldIgnoreGit(ignoredPath, snapshot) {
		testingHandle.Fatalf("expected version control ignores to require FilterIgnored")
	}

	excluded := newTestFilter(testingHandle, rootPath, filter.Rules{
		FilterIgnored:    true,
		FilterGitIgnored: true,
		ExcludePatterns:  []string{"build"},
	})
	if excluded.Skip(ignoredPath, snapshot) {
		testingHandle.Fatalf("expected exclude pattern to keep version control ignored path visible")
	}
}

// TestNewRejectsInvalidPattern verifies compile errors are reported.
func TestNewRejectsInvalidPattern(testingHandle *testing.T) {
	if _, filterError := filter.New("/", filter.Rules{ExcludePatterns: []string{"(unclosed"}}); filterError == nil {
		testingHandle.Fatalf("expected invalid pattern to fail")
	}
}
