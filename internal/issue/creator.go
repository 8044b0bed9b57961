// Package issue creates issue branches, asking for a new suffix until the
// proposed name is free.
package issue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/freema/fgit/internal/apperror"
	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/conventional"
	"github.com/freema/fgit/internal/logger"
)

// Brancher is the part of the git client the loop needs.
type Brancher interface {
	BranchExists(ctx context.Context, name string) (bool, error)
	CreateBranch(ctx context.Context, stdio cli.Stdio, name string) (int, error)
}

// Asker reads one answer line after printing a question.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Result is the outcome of a finished loop.
type Result struct {
	Branch   string
	ExitCode int
	Attempts int
}

// Creator drives the ProposeName → CheckExists → {CreateBranch | PromptForNewSuffix} loop.
type Creator struct {
	git   Brancher
	asker Asker
	stdio cli.Stdio
}

// NewCreator creates an issue branch creator.
func NewCreator(git Brancher, asker Asker, stdio cli.Stdio) *Creator {
	return &Creator{git: git, asker: asker, stdio: stdio}
}

// Run proposes issue/<keyNumber>[-<suffix>] and re-prompts for a suffix while
// the name is taken. The loop has no attempt limit; it ends when a free name
// is created, input runs out, or ctx is cancelled.
func (c *Creator) Run(ctx context.Context, keyNumber, suffix string) (*Result, error) {
	log := logger.FromContext(ctx).With("key_number", keyNumber)

	state := StateProposeName
	var name string
	attempts := 0

	for {
		var next State
		switch state {
		case StateProposeName:
			name = conventional.IssueBranchName(keyNumber, suffix)
			attempts++
			next = StateCheckExists

		case StateCheckExists:
			exists, err := c.git.BranchExists(ctx, name)
			if err != nil {
				return nil, err
			}
			log.Debug("checked branch", "branch", name, "exists", exists)
			if exists {
				next = StatePromptForNewSuffix
			} else {
				next = StateCreateBranch
			}

		case StatePromptForNewSuffix:
			answer, err := c.asker.Ask(ctx,
				fmt.Sprintf("A branch named '%s' already exists. Please enter a new suffix:", name))
			if errors.Is(err, io.EOF) {
				return nil, apperror.Aborted("No new suffix given, aborting.")
			}
			if err != nil {
				return nil, err
			}
			suffix = strings.TrimSpace(answer)
			next = StateProposeName

		case StateCreateBranch:
			code, err := c.git.CreateBranch(ctx, c.stdio, name)
			if err != nil {
				return nil, err
			}
			log.Info("issue branch loop finished", "branch", name, "attempts", attempts, "exit_code", code)
			return &Result{Branch: name, ExitCode: code, Attempts: attempts}, nil
		}

		if err := ValidateTransition(state, next); err != nil {
			return nil, err
		}
		state = next
	}
}
