package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

const (
	gitExecutableName = "git"

	errorOpenRepositoryFormat = "opening repository at %s: %w"
	errorWorktreeFormat       = "opening worktree at %s: %w"
	errorGitStatusFormat      = "git status failed in %s: %w\n%s"
	errorNativeStatusFormat   = "reading worktree status in %s: %w"
)

var porcelainArguments = []string{"status", "--porcelain=v1", "--ignored=matching", "-uall"}

// CommandRunner executes a command in directory and returns its combined output.
type CommandRunner func(ctx context.Context, directory string, name string, arguments ...string) ([]byte, error)

// Collector produces status snapshots for the repository containing a path.
type Collector struct {
	runCommand CommandRunner
}

// NewCollector returns a collector that shells out to the git executable.
func NewCollector() *Collector {
	return &Collector{runCommand: runExternalCommand}
}

// NewCollectorWithRunner returns a collector using the provided command runner.
func NewCollectorWithRunner(runner CommandRunner) *Collector {
	return &Collector{runCommand: runner}
}

// RepositoryRoot returns the worktree root containing path, or an empty string
// when path is not inside a repository.
func RepositoryRoot(path string) (string, *git.Repository, error) {
	repository, openError := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf(errorOpenRepositoryFormat, path, openError)
	}
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return "", nil, fmt.Errorf(errorWorktreeFormat, path, worktreeError)
	}
	return filepath.Clean(worktree.Filesystem.Root()), repository, nil
}

// Collect returns the status snapshot of the repository containing path. A
// path outside any repository yields an empty snapshot. When the git
// executable is unavailable the worktree status is computed natively, which
// carries no ignored entries.
func (collector *Collector) Collect(ctx context.Context, path string) (Snapshot, error) {
	repositoryRoot, repository, rootError := RepositoryRoot(path)
	if rootError != nil {
		return NewSnapshot(), rootError
	}
	if repositoryRoot == "" {
		return NewSnapshot(), nil
	}

	commandOutput, commandError := collector.runCommand(ctx, repositoryRoot, gitExecutableName, porcelainArguments...)
	if commandError == nil {
		return ParsePorcelain(repositoryRoot, commandOutput), nil
	}
	if !errors.Is(commandError, exec.ErrNotFound) {
		return NewSnapshot(), fmt.Errorf(errorGitStatusFormat, repositoryRoot, commandError, string(commandOutput))
	}
	return nativeSnapshot(repositoryRoot, repository)
}

func nativeSnapshot(repositoryRoot string, repository *git.Repository) (Snapshot, error) {
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return NewSnapshot(), fmt.Errorf(errorWorktreeFormat, repositoryRoot, worktreeError)
	}
	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return NewSnapshot(), fmt.Errorf(errorNativeStatusFormat, repositoryRoot, statusError)
	}
	snapshot := NewSnapshot()
	for relativePath, fileStatus := range worktreeStatus {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		statusCode := string([]byte{byte(fileStatus.Staging), byte(fileStatus.Worktree)})
		snapshot.record(repositoryRoot, filepath.ToSlash(relativePath), statusCode)
	}
	return snapshot, nil
}

func runExternalCommand(ctx context.Context, directory string, name string, arguments ...string) ([]byte, error) {
	// #nosec G204
	command := exec.CommandContext(ctx, name, arguments...)
	command.Dir = directory
	return command.CombinedOutput()
}
