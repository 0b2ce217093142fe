// Package config loads application configuration and per-root ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/dirtree/internal/filter"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	commentPrefix = "#"
	// gitDirectoryName is always added to the custom ignore names.
	gitDirectoryName = utils.GitDirectoryName
)

// LoadIgnoreFilePatterns reads an ignore file and returns one name per
// non-empty, non-comment line. A missing file yields no names.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignoreNames []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignoreNames = append(ignoreNames, strings.TrimSuffix(trimmedLine, "/"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignoreNames, nil
}

// FilterRules builds the filter rules for one root: configured custom names,
// names read from the root's ignore file and the Git directory.
func FilterRules(rootPath string, settings Settings) (filter.Rules, error) {
	customNames := append([]string{gitDirectoryName}, settings.CustomIgnores...)
	if settings.UseIgnoreFile {
		ignoreFilePath := filepath.Join(rootPath, utils.IgnoreFileName)
		fileNames, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
		if loadError != nil {
			return filter.Rules{}, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, rootPath, loadError)
		}
		customNames = append(customNames, fileNames...)
	}

	var excludePatterns []string
	for _, pattern := range settings.ExcludePatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(excludePatterns, trimmedPattern) {
			excludePatterns = append(excludePatterns, trimmedPattern)
		}
	}

	return filter.Rules{
		FilterDotfiles:    settings.FilterDotfiles,
		FilterIgnored:     settings.FilterIgnored,
		FilterGitIgnored:  settings.FilterGitIgnored && settings.GitEnabled,
		ExcludePatterns:   excludePatterns,
		CustomIgnoreNames: utils.DeduplicatePatterns(customNames),
	}, nil
}
