// Package gitctx reports the git state around a manifest so a patch
// run can warn before rewriting a file with uncommitted local edits.
// Everything here is best-effort: not being in a repository is not an
// error, it is silence.
package gitctx

import (
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// Context is a minimal view of the repository holding the manifest.
type Context struct {
	Branch        string
	SHA           string
	ManifestDirty bool
}

// Describe returns the repository context for the given manifest path,
// or nil when the path is not inside a git worktree.
func Describe(manifestPath string) *Context {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}
	head, err := repo.Head()
	if err != nil {
		return nil
	}

	ctx := &Context{
		Branch: head.Name().Short(),
		SHA:    head.Hash().String(),
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ctx
	}
	status, err := wt.Status()
	if err != nil {
		return ctx
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return ctx
	}
	// The status map only carries entries for files that differ from
	// HEAD; a clean manifest simply is not present.
	if fs, ok := status[filepath.ToSlash(rel)]; ok {
		ctx.ManifestDirty = fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified
	}
	return ctx
}
