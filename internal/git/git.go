// Package git drives the git executable on behalf of fgit commands and
// talks to the GitLab merge request API.
//
//   - git.go: Client and the low-level run helpers
//   - branch.go: current branch, branch existence, branch creation
//   - commit.go: commit with a composed message
//   - remote.go: dry-run fetch, pull, push
//   - status.go: working tree status summary
//   - gitlab.go: merge request listing
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/freema/fgit/internal/cli"
)

// Client runs git commands in a working directory through a cli.Runner.
type Client struct {
	runner cli.Runner
	binary string
	dir    string
}

// NewClient creates a git client. An empty binary defaults to "git"; an
// empty dir means the current working directory.
func NewClient(runner cli.Runner, binary, dir string) *Client {
	if binary == "" {
		binary = "git"
	}
	return &Client{runner: runner, binary: binary, dir: dir}
}

// WithDir returns a copy of the client that runs in dir.
func (c *Client) WithDir(dir string) *Client {
	cp := *c
	cp.dir = dir
	return &cp
}

// Passthrough runs git with args verbatim, attached to stdio, and returns
// git's exit code unchanged.
func (c *Client) Passthrough(ctx context.Context, stdio cli.Stdio, args ...string) (int, error) {
	res, err := c.runner.Run(ctx, cli.RunOptions{
		Name:   c.binary,
		Args:   args,
		Dir:    c.dir,
		Stdin:  stdio.In,
		Stdout: stdio.Out,
		Stderr: stdio.Err,
	})
	if err != nil {
		return exitCodeOf(res), err
	}
	return res.ExitCode, nil
}

// gitOutput runs a git command and returns trimmed stdout. A non-zero exit is an error.
func (c *Client) gitOutput(ctx context.Context, args ...string) (string, error) {
	res, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", fmt.Errorf("git %s: exit %d: %s", args[0], res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// run executes a git command with captured output and no stdin.
func (c *Client) run(ctx context.Context, args ...string) (*cli.RunResult, error) {
	return c.runner.Run(ctx, cli.RunOptions{
		Name: c.binary,
		Args: args,
		Dir:  c.dir,
	})
}

func exitCodeOf(res *cli.RunResult) int {
	if res == nil {
		return 1
	}
	return res.ExitCode
}
