// Package vcs supplies content fingerprints for ports and answers whether a
// port has uncommitted changes.
package vcs

import (
	"fmt"
	"path"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// GitTreeProvider fingerprints ports with the git tree object hash of each
// port's directory at HEAD. Matching the registry's publishing model, the
// fingerprint reflects committed content only; uncommitted edits surface
// through HasLocalChanges.
type GitTreeProvider struct {
	repo     *git.Repository
	portsRel string

	trees  map[string]string
	status git.Status
}

// NewGitTreeProvider opens the repository containing root. portsRel is the
// ports directory path relative to the repository root, using forward
// slashes (normally "ports").
func NewGitTreeProvider(root, portsRel string) (*GitTreeProvider, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &GitTreeProvider{repo: repo, portsRel: path.Clean(portsRel)}, nil
}

// Fingerprint returns the tree hash recorded at HEAD for the port. The
// second return value is false when HEAD has no tree for it, which happens
// for ports never committed.
func (p *GitTreeProvider) Fingerprint(port string) (string, bool, error) {
	if p.trees == nil {
		trees, err := p.portTrees()
		if err != nil {
			return "", false, err
		}
		p.trees = trees
	}

	hash, ok := p.trees[port]
	return hash, ok, nil
}

func (p *GitTreeProvider) portTrees() (map[string]string, error) {
	head, err := p.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := p.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}

	root, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}

	portsTree, err := root.Tree(p.portsRel)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", p.portsRel, err)
	}

	trees := make(map[string]string, len(portsTree.Entries))
	for _, entry := range portsTree.Entries {
		if entry.Mode == filemode.Dir {
			trees[entry.Name] = entry.Hash.String()
		}
	}
	return trees, nil
}

// HasLocalChanges reports whether the worktree has uncommitted changes under
// the port's directory.
func (p *GitTreeProvider) HasLocalChanges(port string) (bool, error) {
	if p.status == nil {
		worktree, err := p.repo.Worktree()
		if err != nil {
			return false, err
		}
		status, err := worktree.Status()
		if err != nil {
			return false, err
		}
		p.status = status
	}

	prefix := p.portsRel + "/" + port + "/"
	for file, fileStatus := range p.status {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}
