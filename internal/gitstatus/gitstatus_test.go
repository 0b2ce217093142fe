package gitstatus_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/dirtree/internal/gitstatus"
	"github.com/temirov/dirtree/internal/types"
)

const samplePorcelain = ` M src/main.go
?? docs/new file.md
R  old/name.go -> pkg/renamed.go
!! build/
!! debug.log
?? "odd\tname.txt"
`

func TestParsePorcelain(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	snapshot := gitstatus.ParsePorcelain(root, []byte(samplePorcelain))

	assert.Equal(t, " M", snapshot.Files[filepath.Join(root, "src", "main.go")])
	assert.Equal(t, "??", snapshot.Files[filepath.Join(root, "docs", "new file.md")])
	assert.Equal(t, "R ", snapshot.Files[filepath.Join(root, "pkg", "renamed.go")])
	assert.NotContains(t, snapshot.Files, filepath.Join(root, "old", "name.go"))
	assert.Equal(t, types.GitStatusIgnored, snapshot.Directories[filepath.Join(root, "build")])
	assert.Equal(t, types.GitStatusIgnored, snapshot.Files[filepath.Join(root, "debug.log")])
	assert.Equal(t, "??", snapshot.Files[filepath.Join(root, "odd\tname.txt")])

	t.Run("ancestors_carry_first_status", func(t *testing.T) {
		assert.Equal(t, " M", snapshot.Directories[filepath.Join(root, "src")])
		assert.Equal(t, "??", snapshot.Directories[filepath.Join(root, "docs")])
		assert.NotContains(t, snapshot.Directories, root)
	})

	t.Run("ignored_entries_do_not_mark_ancestors", func(t *testing.T) {
		nestedSnapshot := gitstatus.ParsePorcelain(root, []byte("!! vendor/cache/\n"))
		assert.NotContains(t, nestedSnapshot.Directories, filepath.Join(root, "vendor"))
		assert.True(t, nestedSnapshot.IsIgnored(filepath.Join(root, "vendor", "cache")))
	})
}

func TestSnapshotLookupPrefersDirectories(t *testing.T) {
	snapshot := gitstatus.NewSnapshot()
	snapshot.Files["/repo/item"] = " M"
	snapshot.Directories["/repo/item"] = types.GitStatusIgnored

	assert.Equal(t, types.GitStatusIgnored, snapshot.Lookup("/repo/item"))
	assert.Equal(t, "", snapshot.Lookup("/repo/other"))
	assert.False(t, snapshot.IsEmpty())
	assert.True(t, gitstatus.Snapshot{}.IsEmpty())
}

func TestCollectOutsideRepository(t *testing.T) {
	collector := gitstatus.NewCollectorWithRunner(func(context.Context, string, string, ...string) ([]byte, error) {
		t.Fatalf("runner must not be invoked outside a repository")
		return nil, nil
	})
	snapshot, collectError := collector.Collect(context.Background(), t.TempDir())
	require.NoError(t, collectError)
	assert.True(t, snapshot.IsEmpty())
}

func TestCollectParsesRunnerOutput(t *testing.T) {
	repositoryDirectory := t.TempDir()
	_, initError := git.PlainInit(repositoryDirectory, false)
	require.NoError(t, initError)
	nestedDirectory := filepath.Join(repositoryDirectory, "nested")
	require.NoError(t, os.Mkdir(nestedDirectory, 0o755))

	var observedDirectory string
	collector := gitstatus.NewCollectorWithRunner(func(_ context.Context, directory string, name string, arguments ...string) ([]byte, error) {
		observedDirectory = directory
		assert.Equal(t, "git", name)
		assert.Contains(t, arguments, "--porcelain=v1")
		return []byte("?? nested/file.txt\n"), nil
	})

	snapshot, collectError := collector.Collect(context.Background(), nestedDirectory)
	require.NoError(t, collectError)

	repositoryRoot, _, rootError := gitstatus.RepositoryRoot(nestedDirectory)
	require.NoError(t, rootError)
	assert.Equal(t, repositoryRoot, observedDirectory)
	assert.Equal(t, "??", snapshot.Files[filepath.Join(repositoryRoot, "nested", "file.txt")])
	assert.Equal(t, "??", snapshot.Directories[filepath.Join(repositoryRoot, "nested")])
}

func TestCollectFallsBackToNativeStatus(t *testing.T) {
	repositoryDirectory := t.TempDir()
	_, initError := git.PlainInit(repositoryDirectory, false)
	require.NoError(t, initError)
	require.NoError(t, os.WriteFile(filepath.Join(repositoryDirectory, "fresh.txt"), []byte("x"), 0o644))

	collector := gitstatus.NewCollectorWithRunner(func(context.Context, string, string, ...string) ([]byte, error) {
		return nil, &exec.Error{Name: "git", Err: exec.ErrNotFound}
	})
	snapshot, collectError := collector.Collect(context.Background(), repositoryDirectory)
	require.NoError(t, collectError)

	repositoryRoot, _, rootError := gitstatus.RepositoryRoot(repositoryDirectory)
	require.NoError(t, rootError)
	assert.Equal(t, "??", snapshot.Files[filepath.Join(repositoryRoot, "fresh.txt")])
}

func TestDescribe(t *testing.T) {
	_, outsideError := gitstatus.Describe(t.TempDir())
	require.ErrorIs(t, outsideError, gitstatus.ErrNotRepository)

	repositoryDirectory := t.TempDir()
	repository, initError := git.PlainInit(repositoryDirectory, false)
	require.NoError(t, initError)
	require.NoError(t, os.WriteFile(filepath.Join(repositoryDirectory, "main.go"), []byte("package main\n"), 0o644))
	worktree, worktreeError := repository.Worktree()
	require.NoError(t, worktreeError)
	_, addError := worktree.Add("main.go")
	require.NoError(t, addError)
	commitHash, commitError := worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dirtree", Email: "dirtree@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, commitError)

	untagged, untaggedError := gitstatus.Describe(repositoryDirectory)
	require.NoError(t, untaggedError)
	assert.Equal(t, commitHash.String()[:7], untagged)

	_, tagError := repository.CreateTag("v1.2.0", commitHash, nil)
	require.NoError(t, tagError)
	tagged, taggedError := gitstatus.Describe(repositoryDirectory)
	require.NoError(t, taggedError)
	assert.Equal(t, "v1.2.0", tagged)
}
