package git

import (
	"context"
	"fmt"

	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/logger"
)

// Commit runs `git commit -m <message>` attached to stdio and returns git's exit code.
// The message is passed as a single argument, never through a shell.
func (c *Client) Commit(ctx context.Context, stdio cli.Stdio, message string) (int, error) {
	code, err := c.Passthrough(ctx, stdio, "commit", "-m", message)
	if err != nil {
		return code, fmt.Errorf("committing: %w", err)
	}
	logger.FromContext(ctx).Info("git commit finished", "message", message, "exit_code", code)
	return code, nil
}
