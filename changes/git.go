package changes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DiffMode selects which revision the diff is taken against.
type DiffMode string

const (
	// DiffWorkingTree compares the working tree against HEAD.
	DiffWorkingTree DiffMode = "working-tree"

	// DiffStaged compares the index against HEAD.
	DiffStaged DiffMode = "staged"

	// DiffRevision compares against a named revision or range.
	DiffRevision DiffMode = "revision"
)

// Git reads diff and status output from a repository. It is the only place
// the engine shells out; everything downstream works on the returned text.
type Git struct {
	dir string
}

// NewGit creates a Git bound to the repository at dir.
func NewGit(dir string) *Git {
	return &Git{dir: dir}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Diff returns the unified diff for a single file under the given mode.
func (g *Git) Diff(ctx context.Context, mode DiffMode, revision, file string) (string, error) {
	args := []string{"diff"}

	switch mode {
	case DiffStaged:
		args = append(args, "--cached")
	case DiffRevision:
		if revision == "" {
			return "", fmt.Errorf("revision mode requires a revision")
		}
		args = append(args, revision)
	}

	args = append(args, "--", file)
	return g.run(ctx, args...)
}

// ChangedFiles returns the paths git reports as changed under the given
// mode, relative to the repository root.
func (g *Git) ChangedFiles(ctx context.Context, mode DiffMode, revision string) ([]string, error) {
	args := []string{"diff", "--name-only"}

	switch mode {
	case DiffStaged:
		args = append(args, "--cached")
	case DiffRevision:
		if revision == "" {
			return nil, fmt.Errorf("revision mode requires a revision")
		}
		args = append(args, revision)
	}

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}

	return files, nil
}
