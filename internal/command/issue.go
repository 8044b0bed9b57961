package command

import (
	"context"

	"github.com/freema/fgit/internal/apperror"
	"github.com/freema/fgit/internal/issue"
)

// issue handles `fgit issue <issue-key>-<issue-number> [suffix]`.
func (a *App) issue(ctx context.Context, args []string) (int, error) {
	if len(args) < 1 || len(args) > 2 {
		return 1, apperror.Usage("Usage: fgit issue <issue-key>-<issue-number> [suffix]")
	}

	suffix := ""
	if len(args) == 2 {
		suffix = args[1]
	}

	res, err := issue.NewCreator(a.git, a.prompter, a.stdio).Run(ctx, args[0], suffix)
	if err != nil {
		return 1, err
	}
	return res.ExitCode, nil
}
