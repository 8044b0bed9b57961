package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/logger"
)

// FetchDryRun reports what `git fetch --dry-run <remote> <branch>` would
// fetch. Git prints the ref updates on stderr, so both streams are returned
// together; an empty string means the remote has nothing new.
func (c *Client) FetchDryRun(ctx context.Context, remote, branch string) (string, error) {
	res, err := c.run(ctx, "fetch", "--dry-run", remote, branch)
	if err != nil {
		return "", fmt.Errorf("fetching %s/%s: %w", remote, branch, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("git fetch --dry-run %s %s: exit %d: %s",
			remote, branch, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout + res.Stderr), nil
}

// Pull runs `git pull <remote> <branch>` attached to stdio and returns git's exit code.
func (c *Client) Pull(ctx context.Context, stdio cli.Stdio, remote, branch string) (int, error) {
	code, err := c.Passthrough(ctx, stdio, "pull", remote, branch)
	if err != nil {
		return code, fmt.Errorf("pulling %s/%s: %w", remote, branch, err)
	}
	logger.FromContext(ctx).Info("pulled", "remote", remote, "branch", branch, "exit_code", code)
	return code, nil
}

// Push runs `git push -u <remote> <branch>` attached to stdio and returns git's exit code.
func (c *Client) Push(ctx context.Context, stdio cli.Stdio, remote, branch string) (int, error) {
	code, err := c.Passthrough(ctx, stdio, "push", "-u", remote, branch)
	if err != nil {
		return code, fmt.Errorf("pushing %s to %s: %w", branch, remote, err)
	}
	logger.FromContext(ctx).Info("pushed", "remote", remote, "branch", branch, "exit_code", code)
	return code, nil
}
