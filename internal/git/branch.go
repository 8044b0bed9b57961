package git

import (
	"context"
	"fmt"

	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/logger"
)

// CurrentBranch returns the abbreviated name of HEAD ("HEAD" when detached).
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := c.gitOutput(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("getting current branch: %w", err)
	}
	return branch, nil
}

// BranchExists reports whether refs/heads/<name> exists locally.
func (c *Client) BranchExists(ctx context.Context, name string) (bool, error) {
	res, err := c.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		return false, fmt.Errorf("checking branch %s: %w", name, err)
	}
	return res.Success(), nil
}

// CreateBranch creates name from HEAD and checks it out, streaming git's
// output to stdio. It returns git's exit code.
func (c *Client) CreateBranch(ctx context.Context, stdio cli.Stdio, name string) (int, error) {
	code, err := c.Passthrough(ctx, stdio, "checkout", "-b", name)
	if err != nil {
		return code, fmt.Errorf("creating branch %s: %w", name, err)
	}
	if code == 0 {
		logger.FromContext(ctx).Info("branch created", "branch", name)
	}
	return code, nil
}
