package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	// DefaultDepth shows the root's children with every container collapsed.
	DefaultDepth = 1
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds every configurable default. Unset pointer
// fields fall through to the built-in defaults.
type ApplicationConfiguration struct {
	Tree    TreeConfiguration   `mapstructure:"tree"`
	Filters FilterConfiguration `mapstructure:"filters"`
	Git     GitConfiguration    `mapstructure:"git"`
}

// TreeConfiguration controls how trees are built and rendered.
type TreeConfiguration struct {
	Format     string `mapstructure:"format"`
	Depth      *int   `mapstructure:"depth"`
	GroupEmpty *bool  `mapstructure:"group_empty"`
	Copy       *bool  `mapstructure:"copy"`
}

// FilterConfiguration holds the path filtering rules.
type FilterConfiguration struct {
	Dotfiles      *bool    `mapstructure:"dotfiles"`
	Ignored       *bool    `mapstructure:"ignored"`
	GitIgnored    *bool    `mapstructure:"git_ignored"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
	Exclude       []string `mapstructure:"exclude"`
	Custom        []string `mapstructure:"custom"`
}

// GitConfiguration toggles version control status collection.
type GitConfiguration struct {
	Enabled *bool `mapstructure:"enabled"`
}

// Settings is the fully resolved configuration with defaults applied.
type Settings struct {
	Format           string
	Depth            int
	GroupEmpty       bool
	Copy             bool
	FilterDotfiles   bool
	FilterIgnored    bool
	FilterGitIgnored bool
	UseIgnoreFile    bool
	ExcludePatterns  []string
	CustomIgnores    []string
	GitEnabled       bool
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		homeDirectory, _ = os.UserHomeDir()
	}
	if homeDirectory != "" {
		globalPath := GlobalConfigurationPath(homeDirectory)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Filters.Exclude = utils.DeduplicatePatterns(merged.Filters.Exclude)
	merged.Filters.Custom = utils.DeduplicatePatterns(merged.Filters.Custom)

	return merged, nil
}

// GlobalConfigurationPath returns the global configuration file under homeDirectory.
func GlobalConfigurationPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	result.Filters = result.Filters.merge(override.Filters)
	if override.Git.Enabled != nil {
		result.Git.Enabled = cloneBool(override.Git.Enabled)
	}
	return result
}

// Resolve applies built-in defaults to every unset field.
func (config ApplicationConfiguration) Resolve() Settings {
	format := config.Tree.Format
	if format == "" {
		format = types.FormatRaw
	}
	return Settings{
		Format:           format,
		Depth:            intOrDefault(config.Tree.Depth, DefaultDepth),
		GroupEmpty:       boolOrDefault(config.Tree.GroupEmpty, true),
		Copy:             boolOrDefault(config.Tree.Copy, false),
		FilterDotfiles:   boolOrDefault(config.Filters.Dotfiles, true),
		FilterIgnored:    boolOrDefault(config.Filters.Ignored, true),
		FilterGitIgnored: boolOrDefault(config.Filters.GitIgnored, true),
		UseIgnoreFile:    boolOrDefault(config.Filters.UseIgnoreFile, true),
		ExcludePatterns:  append([]string{}, config.Filters.Exclude...),
		CustomIgnores:    append([]string{}, config.Filters.Custom...),
		GitEnabled:       boolOrDefault(config.Git.Enabled, true),
	}
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.GroupEmpty != nil {
		result.GroupEmpty = cloneBool(override.GroupEmpty)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config FilterConfiguration) merge(override FilterConfiguration) FilterConfiguration {
	result := config
	if override.Dotfiles != nil {
		result.Dotfiles = cloneBool(override.Dotfiles)
	}
	if override.Ignored != nil {
		result.Ignored = cloneBool(override.Ignored)
	}
	if override.GitIgnored != nil {
		result.GitIgnored = cloneBool(override.GitIgnored)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Custom) > 0 {
		result.Custom = append([]string{}, utils.DeduplicatePatterns(override.Custom)...)
	}
	return result
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
