package cli

import (
	"context"
	"io"
	"time"
)

// Runner is the interface for external tool execution (git, the build tool).
//
// Run returns an error only when the process could not be started or was
// interrupted. A process that ran and exited non-zero is not an error: its
// status is reported in RunResult.ExitCode so callers can propagate it.
type Runner interface {
	Run(ctx context.Context, opts RunOptions) (*RunResult, error)
}

// RunOptions configures a process run.
type RunOptions struct {
	Name string
	Args []string
	Dir  string
	Env  []string

	// Stdin, Stdout and Stderr are attached to the process when set.
	// Unset Stdout/Stderr are captured into RunResult. A process with any
	// stream attached is not killed when ctx is cancelled; it runs to exit.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult holds the outcome of a process run.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Success reports whether the process exited with status 0.
func (r *RunResult) Success() bool {
	return r != nil && r.ExitCode == 0
}
