package experiment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotInstalled is returned when the git executable cannot be found.
var ErrGitNotInstalled = errors.New("git not installed")

// HeadCommitID returns the short id of HEAD for the repository containing dir.
// It returns "" when dir is not inside a work tree or HEAD has no commit.
func HeadCommitID(ctx context.Context, dir string) (string, error) {
	inside, err := git(ctx, dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if errors.Is(err, ErrGitNotInstalled) {
			return "", err
		}
		// Outside a repository git exits non-zero.
		return "", nil
	}
	if inside != "true" {
		return "", nil
	}

	id, err := git(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		if errors.Is(err, ErrGitNotInstalled) {
			return "", err
		}
		return "", nil
	}
	return id, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", ErrGitNotInstalled
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
