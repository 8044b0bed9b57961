package command

import (
	"context"
	"fmt"

	"github.com/freema/fgit/internal/logger"
)

// finish handles `fgit finish`: push the current branch with upstream tracking,
// confirming first when the working tree is dirty.
func (a *App) finish(ctx context.Context, _ []string) (int, error) {
	branch, err := a.git.CurrentBranch(ctx)
	if err != nil {
		return 1, err
	}

	status, err := a.git.Status(ctx)
	if err != nil {
		return 1, err
	}

	if status.HasChanges() {
		logger.FromContext(ctx).Debug("pending changes",
			"modified", status.FilesModified,
			"created", status.FilesCreated,
			"deleted", status.FilesDeleted,
		)
		fmt.Fprintln(a.stdio.Out, "You have pending changes in your tree.")
		fmt.Fprintln(a.stdio.Out)

		ok, err := a.prompter.Confirm(ctx, "Are you sure you want to push your changes?", "(y/N)")
		if err != nil {
			return 1, err
		}
		if !ok {
			fmt.Fprint(a.stdio.Out, "\nAborting...\n\n")
			return 1, nil
		}
	}

	return a.git.Push(ctx, a.stdio, a.cfg.Push.Remote, branch)
}
