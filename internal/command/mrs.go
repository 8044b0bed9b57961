package command

import (
	"context"
	"fmt"

	"github.com/freema/fgit/internal/keys"
)

// mrs handles `fgit mrs [project-id]`.
func (a *App) mrs(ctx context.Context, args []string) (int, error) {
	resolver := keys.NewResolver(a.getenv)

	token, err := resolver.ResolveToken()
	if err != nil {
		return 1, err
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	projectID, err := resolver.ResolveProjectID(arg)
	if err != nil {
		return 1, err
	}

	mrs, err := a.gitlab.ListMergeRequests(ctx, token, projectID)
	if err != nil {
		return 1, err
	}
	for _, mr := range mrs {
		fmt.Fprintln(a.stdio.Out, mr.String())
	}
	return 0, nil
}
