package gitinfo

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// Describe reports the repository state of projectPath. Paths inside a
// repository resolve to it; anything go-git cannot open is reported as not a
// repository rather than as an error.
func (g *GitInfoAdapter) Describe(projectPath string) domain.ProjectInfo {
	info := domain.ProjectInfo{Path: projectPath}
	if abs, err := filepath.Abs(projectPath); err == nil {
		info.Path = abs
	}

	repo, err := git.PlainOpenWithOptions(info.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return info
	}
	info.IsGitRepo = true

	head, err := repo.Head()
	if err != nil {
		// Fresh repository without commits.
		return info
	}
	info.CommitHash = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info
}
