// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/explorer"
	"github.com/temirov/dirtree/internal/filter"
	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/output"
	"github.com/temirov/dirtree/internal/services/clipboard"
	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	exclusionFlagName    = "e"
	showAllFlagName      = "all"
	noIgnoreFlagName     = "no-ignore"
	noGitFlagName        = "no-git"
	noGroupFlagName      = "no-group"
	depthFlagName        = "depth"
	formatFlagName       = "format"
	configFlagName       = "config"
	copyFlagName         = "copy"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionFlagName      = "version"
	versionTemplate      = "dirtree version: %s\n"
	defaultPath          = "."
	rootUse              = "dirtree"
	rootShortDescription = "dirtree command line interface"
	rootLongDescription  = `dirtree renders directory trees annotated with Git status.
Single-child directory chains are folded into one entry, dotfiles and ignored paths are filtered, and exclude patterns always win.
Use --format to select raw or json output, and --version to print the application version.`
	versionFlagDescription = "display application version"
	treeUse                = "tree [paths...]"
	treeAlias              = "t"
	treeShortDescription   = "display directory tree (" + treeAlias + ")"

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `List directories and files for one or more paths.
Use --depth to control how many levels are expanded and --format to select raw or json output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Expand three levels in JSON
  dirtree tree --depth 3 --format json ./cmd

  # Show dotfiles but keep .git hidden, and always show .github
  dirtree tree --all -e '\.github$' .`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + `,
or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`
	initWrittenFormat = "Configuration written to %s\n"

	exclusionFlagDescription = "exclude path pattern (regular expression); excluded paths are always shown"
	showAllFlagDescription   = "show dotfiles"
	noIgnoreFlagDescription  = "do not hide ignored paths"
	noGitFlagDescription     = "do not collect Git status"
	noGroupFlagDescription   = "do not fold single-child directory chains"
	depthFlagDescription     = "levels to expand below each root (-1 for all)"
	formatFlagDescription    = "output format (raw or json)"
	configFlagDescription    = "configuration file path"
	copyFlagDescription      = "copy the rendered output to the clipboard"
	globalFlagDescription    = "write the global configuration"
	forceFlagDescription     = "overwrite an existing configuration"

	invalidFormatMessage        = "Invalid format value '%s'"
	warningSkipPathFormat       = "Warning: skipping %s: %v\n"
	warningGitStatusFormat      = "Warning: git status unavailable for %s: %v\n"
	warningClipboardFormat      = "Warning: failed to copy output to clipboard: %v\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a root that is not a directory.
	errorNotDirectoryFormat = "'%s' is not a directory"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// StatusCollector produces a version control snapshot for a path.
type StatusCollector interface {
	Collect(ctx context.Context, path string) (gitstatus.Snapshot, error)
}

// Dependencies carries the collaborators used by the commands.
type Dependencies struct {
	Logger          *zap.Logger
	Stdout          io.Writer
	Stderr          io.Writer
	Clipboard       clipboard.Copier
	StatusCollector StatusCollector
	// HomeDirectory overrides the user home directory for global configuration.
	HomeDirectory string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.StatusCollector == nil {
		dependencies.StatusCollector = gitstatus.NewCollector()
	}
	return dependencies
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON:
		return true
	default:
		return false
	}
}

// Execute runs the dirtree application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(dependencies.Stdout, versionTemplate, applicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createTreeCommand(dependencies),
		createInitCommand(dependencies),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// treeOptions stores the raw flag values of the tree command.
type treeOptions struct {
	exclusionPatterns []string
	showAll           bool
	noIgnore          bool
	noGit             bool
	noGroup           bool
	depth             int
	format            string
	configPath        string
	copy              bool
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(dependencies Dependencies) *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			settings, settingsError := resolveTreeSettings(command, options, dependencies.HomeDirectory)
			if settingsError != nil {
				return settingsError
			}
			return runTree(command.Context(), dependencies, arguments, settings)
		},
	}

	flagSet := treeCommand.Flags()
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(flagSet, &options.showAll, showAllFlagName, false, showAllFlagDescription)
	registerBooleanFlag(flagSet, &options.noIgnore, noIgnoreFlagName, false, noIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &options.noGit, noGitFlagName, false, noGitFlagDescription)
	registerBooleanFlag(flagSet, &options.noGroup, noGroupFlagName, false, noGroupFlagDescription)
	registerBooleanFlag(flagSet, &options.copy, copyFlagName, false, copyFlagDescription)
	flagSet.IntVar(&options.depth, depthFlagName, config.DefaultDepth, depthFlagDescription)
	flagSet.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	return treeCommand
}

// resolveTreeSettings merges configuration files with the flags the user set explicitly.
func resolveTreeSettings(command *cobra.Command, options treeOptions, homeDirectory string) (config.Settings, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.Settings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
		HomeDirectory:    homeDirectory,
	})
	if loadError != nil {
		return config.Settings{}, loadError
	}
	settings := applicationConfiguration.Resolve()

	flagSet := command.Flags()
	if flagSet.Changed(exclusionFlagName) {
		settings.ExcludePatterns = utils.DeduplicatePatterns(append(settings.ExcludePatterns, options.exclusionPatterns...))
	}
	if flagSet.Changed(showAllFlagName) {
		settings.FilterDotfiles = !options.showAll
	}
	if flagSet.Changed(noIgnoreFlagName) {
		settings.FilterIgnored = !options.noIgnore
	}
	if flagSet.Changed(noGitFlagName) {
		settings.GitEnabled = !options.noGit
	}
	if flagSet.Changed(noGroupFlagName) {
		settings.GroupEmpty = !options.noGroup
	}
	if flagSet.Changed(copyFlagName) {
		settings.Copy = options.copy
	}
	if flagSet.Changed(depthFlagName) {
		settings.Depth = options.depth
	}
	if flagSet.Changed(formatFlagName) {
		settings.Format = options.format
	}
	settings.Format = strings.ToLower(settings.Format)
	if !isSupportedFormat(settings.Format) {
		return config.Settings{}, fmt.Errorf(invalidFormatMessage, settings.Format)
	}
	return settings, nil
}

// rootResult is the outcome of building one root.
type rootResult struct {
	view     *types.TreeOutputNode
	warnings []string
}

// runTree builds every root concurrently, renders them in argument order and
// optionally copies the rendering to the clipboard.
func runTree(ctx context.Context, dependencies Dependencies, paths []string, settings config.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(paths)
	if pathValidationError != nil {
		return pathValidationError
	}

	results := make([]rootResult, len(validatedPaths))
	group, groupContext := errgroup.WithContext(ctx)
	for index, validatedPath := range validatedPaths {
		index, validatedPath := index, validatedPath
		group.Go(func() error {
			results[index] = buildRoot(groupContext, dependencies, validatedPath, settings)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return waitError
	}

	var views []*types.TreeOutputNode
	for _, result := range results {
		for _, warning := range result.warnings {
			fmt.Fprint(dependencies.Stderr, warning)
		}
		if result.view != nil {
			views = append(views, result.view)
		}
	}

	var rendered bytes.Buffer
	if renderError := output.Render(&rendered, settings.Format, views); renderError != nil {
		return renderError
	}
	if _, writeError := dependencies.Stdout.Write(rendered.Bytes()); writeError != nil {
		return writeError
	}
	if settings.Copy {
		if copyError := dependencies.Clipboard.Copy(rendered.String()); copyError != nil {
			fmt.Fprintf(dependencies.Stderr, warningClipboardFormat, copyError)
		}
	}
	return nil
}

// buildRoot explores one root with its own filter, snapshot and explorer.
func buildRoot(ctx context.Context, dependencies Dependencies, validatedPath types.ValidatedPath, settings config.Settings) rootResult {
	var result rootResult
	rootPath := validatedPath.AbsolutePath

	rules, rulesError := config.FilterRules(rootPath, settings)
	if rulesError != nil {
		result.warnings = append(result.warnings, fmt.Sprintf(warningSkipPathFormat, rootPath, rulesError))
		return result
	}
	pathFilter, filterError := filter.New(rootPath, rules)
	if filterError != nil {
		result.warnings = append(result.warnings, fmt.Sprintf(warningSkipPathFormat, rootPath, filterError))
		return result
	}

	snapshot := gitstatus.NewSnapshot()
	if settings.GitEnabled {
		collected, collectError := dependencies.StatusCollector.Collect(ctx, rootPath)
		if collectError != nil {
			result.warnings = append(result.warnings, fmt.Sprintf(warningGitStatusFormat, rootPath, collectError))
		} else {
			snapshot = collected
		}
	}

	treeExplorer := explorer.New(explorer.Settings{
		Filter:     pathFilter,
		GroupEmpty: settings.GroupEmpty,
		Logger:     dependencies.Logger.With(zap.String("root", rootPath)),
		Windows:    explorer.IsWindowsPlatform(),
	})
	tree, openError := treeExplorer.Open(rootPath, snapshot)
	if openError != nil {
		result.warnings = append(result.warnings, fmt.Sprintf(warningSkipPathFormat, rootPath, openError))
		return result
	}
	if depthError := tree.ExpandToDepth(settings.Depth); depthError != nil {
		dependencies.Logger.Debug("partial expansion", zap.String("root", rootPath), zap.Error(depthError))
	}
	result.view = output.BuildView(tree.Root)
	return result
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:        target,
				Force:         force,
				HomeDirectory: dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(dependencies.Stdout, initWrittenFormat, writtenPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf(errorNotDirectoryFormat, inputPath)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}
