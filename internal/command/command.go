// Package command maps fgit's command line onto its handlers. Names that
// are not fgit commands are handed to git verbatim.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/freema/fgit/internal/apperror"
	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/config"
	"github.com/freema/fgit/internal/git"
	"github.com/freema/fgit/internal/logger"
	"github.com/freema/fgit/internal/metrics"
	"github.com/freema/fgit/internal/prompt"
)

// PassthroughCommand is the metrics and log label for commands forwarded to git.
const PassthroughCommand = "passthrough"

const helpHint = "\n`fgit --fgit-help` for more details\n"

type handler func(ctx context.Context, args []string) (int, error)

// Options configures an App.
type Options struct {
	Config  *config.Config
	Runner  cli.Runner
	Stdio   cli.Stdio
	Version string
	// Getenv reads GITLAB_TOKEN and GITLAB_PROJECT_ID. Defaults to os.Getenv.
	Getenv func(string) string
	// Executable locates the running binary for `update`. Defaults to os.Executable.
	Executable func() (string, error)
}

// App runs one fgit invocation.
type App struct {
	cfg        *config.Config
	runner     cli.Runner
	stdio      cli.Stdio
	version    string
	getenv     func(string) string
	executable func() (string, error)

	git      *git.Client
	gitlab   *git.GitLabClient
	prompter *prompt.Prompter
	handlers map[string]handler
}

// New wires an App from opts.
func New(opts Options) *App {
	a := &App{
		cfg:        opts.Config,
		runner:     opts.Runner,
		stdio:      opts.Stdio,
		version:    opts.Version,
		getenv:     opts.Getenv,
		executable: opts.Executable,
	}
	if a.getenv == nil {
		a.getenv = os.Getenv
	}
	if a.executable == nil {
		a.executable = os.Executable
	}

	a.git = git.NewClient(a.runner, a.cfg.Git.Binary, "")
	a.gitlab = git.NewGitLabClient(a.cfg.GitLab.BaseURL, a.cfg.GitLab.Timeout)
	a.prompter = prompt.New(a.stdio.In, a.stdio.Out)

	a.handlers = map[string]handler{
		"commit":      a.commit,
		"issue":       a.issue,
		"mrs":         a.mrs,
		"update":      a.update,
		"finish":      a.finish,
		"--fgit-help": a.help,
		"--help":      a.help,
		"--version":   a.showVersion,
	}
	return a
}

// CommandName returns the label used for args in logs and metrics.
func (a *App) CommandName(args []string) string {
	if len(args) == 0 {
		return "help"
	}
	if _, ok := a.handlers[args[0]]; ok {
		return args[0]
	}
	return PassthroughCommand
}

// Execute runs the command named by args[0] and returns the process exit
// code. Failures are reported on stderr as a single line; usage and
// validation failures are followed by a pointer to the help text on stdout.
func (a *App) Execute(ctx context.Context, args []string) int {
	name := a.CommandName(args)
	log := logger.FromContext(ctx).With("command", name)
	ctx = logger.WithContext(ctx, log)

	code, err := a.dispatch(ctx, args)
	if err != nil {
		a.report(err)
		code = apperror.ExitCode(err)
		log.Debug("command failed", "error", err, "exit_code", code)
	}

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case code != 0:
		outcome = "nonzero_exit"
	}
	metrics.CommandsTotal.WithLabelValues(name, outcome).Inc()

	return code
}

func (a *App) dispatch(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 {
		fmt.Fprint(a.stdio.Out, helpText)
		return 1, nil
	}
	if h, ok := a.handlers[args[0]]; ok {
		return h(ctx, args[1:])
	}
	return a.git.Passthrough(ctx, a.stdio, args...)
}

func (a *App) report(err error) {
	if apperror.IsUserFacing(err) {
		fmt.Fprintln(a.stdio.Err, err.Error())
	} else {
		fmt.Fprintf(a.stdio.Err, "Error: %s\n", err.Error())
	}
	if errors.Is(err, apperror.ErrUsage) || errors.Is(err, apperror.ErrValidation) {
		fmt.Fprint(a.stdio.Out, helpHint)
	}
}

func (a *App) help(_ context.Context, _ []string) (int, error) {
	fmt.Fprint(a.stdio.Out, helpText)
	return 0, nil
}

func (a *App) showVersion(_ context.Context, _ []string) (int, error) {
	fmt.Fprintf(a.stdio.Out, "fgit version %s\n", a.version)
	return 0, nil
}
