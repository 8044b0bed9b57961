package command

import (
	"context"
	"errors"

	"github.com/freema/fgit/internal/apperror"
	"github.com/freema/fgit/internal/conventional"
	"github.com/freema/fgit/internal/logger"
)

// commit handles `fgit commit <type> <scope> <description...>`.
func (a *App) commit(ctx context.Context, args []string) (int, error) {
	if len(args) < 2 {
		return 1, apperror.Usage("Usage: fgit commit <type> <scope> <description>")
	}

	req, err := conventional.NewRequest(args[0], args[1], args[2:])
	if err != nil {
		return 1, err
	}

	branch, err := a.git.CurrentBranch(ctx)
	if errors.Is(err, apperror.ErrCollaborator) {
		return 1, err
	}
	if err != nil {
		// no tag; git commit reports the underlying problem itself
		logger.FromContext(ctx).Debug("could not determine current branch", "error", err)
		branch = ""
	}

	return a.git.Commit(ctx, a.stdio, conventional.ComposeForBranch(req, branch))
}
