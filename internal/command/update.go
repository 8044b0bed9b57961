package command

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/logger"
)

// update handles `fgit update`: fetch the tool's own checkout, and on
// confirmation pull and rebuild it.
func (a *App) update(ctx context.Context, _ []string) (int, error) {
	log := logger.FromContext(ctx)

	dir, err := a.updateDir()
	if err != nil {
		return 1, err
	}
	repo := a.git.WithDir(dir)
	remote, branch := a.cfg.Update.Remote, a.cfg.Update.Branch

	pending, err := repo.FetchDryRun(ctx, remote, branch)
	if err != nil {
		return 1, fmt.Errorf("update failed: %w", err)
	}
	if pending == "" {
		fmt.Fprintln(a.stdio.Out, "fgit is up to date")
		return 0, nil
	}
	log.Debug("update available", "dir", dir, "fetch", pending)

	ok, err := a.prompter.Confirm(ctx, "New version of fgit is available. Do you want to update?", "(y/n)")
	if err != nil {
		return 1, err
	}
	if !ok {
		return 0, nil
	}

	code, err := repo.Pull(ctx, a.stdio, remote, branch)
	if err != nil || code != 0 {
		return code, err
	}

	build := a.cfg.Update.BuildCommand
	if len(build) == 0 {
		return 1, fmt.Errorf("update.build_command is empty")
	}
	res, err := a.runner.Run(ctx, cli.RunOptions{
		Name: build[0],
		Args: build[1:],
		Dir:  dir,
	})
	if err != nil {
		return 1, err
	}
	if !res.Success() {
		fmt.Fprintf(a.stdio.Err, "Build failed:\n%s\n", strings.TrimRight(res.Stderr, "\n"))
		return 1, nil
	}

	log.Info("rebuilt fgit", "dir", dir, "command", cli.CommandLine(build[0], build[1:]))
	fmt.Fprintln(a.stdio.Out, "Project built successfully")
	return 0, nil
}

func (a *App) updateDir() (string, error) {
	if a.cfg.Update.RepoDir != "" {
		return a.cfg.Update.RepoDir, nil
	}
	exe, err := a.executable()
	if err != nil {
		return "", fmt.Errorf("locating fgit executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
