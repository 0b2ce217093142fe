package gitstatus

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const shortHashLength = 7

// ErrNotRepository is returned by Describe outside any repository.
var ErrNotRepository = errors.New("not inside a git repository")

// Describe names the HEAD commit of the repository containing path: the tag
// pointing at it when one exists, otherwise the abbreviated commit hash.
func Describe(path string) (string, error) {
	repositoryRoot, repository, rootError := RepositoryRoot(path)
	if rootError != nil {
		return "", rootError
	}
	if repositoryRoot == "" {
		return "", ErrNotRepository
	}
	head, headError := repository.Head()
	if headError != nil {
		return "", headError
	}
	tagReferences, tagsError := repository.Tags()
	if tagsError != nil {
		return "", tagsError
	}
	var tagName string
	iterationError := tagReferences.ForEach(func(reference *plumbing.Reference) error {
		target := reference.Hash()
		if tagObject, tagObjectError := repository.TagObject(target); tagObjectError == nil {
			if commit, commitError := tagObject.Commit(); commitError == nil {
				target = commit.Hash
			}
		} else if !errors.Is(tagObjectError, plumbing.ErrObjectNotFound) {
			return tagObjectError
		}
		if target == head.Hash() {
			tagName = reference.Name().Short()
			return storer.ErrStop
		}
		return nil
	})
	if iterationError != nil {
		return "", iterationError
	}
	if tagName != "" {
		return tagName, nil
	}
	return head.Hash().String()[:shortHashLength], nil
}
