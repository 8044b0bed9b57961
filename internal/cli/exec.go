package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/freema/fgit/internal/apperror"
	"github.com/freema/fgit/internal/logger"
	"github.com/freema/fgit/internal/metrics"
	"github.com/freema/fgit/internal/tracing"
)

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the process, waits for it, and reports its exit status.
func (r *ExecRunner) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	log := logger.FromContext(ctx)

	ctx, span := tracing.Tracer().Start(ctx, opts.Name+" "+firstArg(opts.Args),
		tracing.WithProcessAttributes(opts.Name, opts.Args))
	defer span.End()

	// A process attached to the user's streams shares the terminal and gets
	// SIGINT from it directly; it decides for itself when to exit.
	attached := opts.Stdin != nil || opts.Stdout != nil || opts.Stderr != nil
	runCtx := ctx
	if attached {
		runCtx = context.WithoutCancel(ctx)
	}

	cmd := exec.CommandContext(runCtx, opts.Name, opts.Args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.Stdin = opts.Stdin

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	cmd.Stderr = &stderrBuf
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	startTime := time.Now()

	if err := cmd.Start(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "spawn failed")
		return nil, apperror.Collaborator("Failed to execute %s command: %v", opts.Name, err)
	}

	log.Debug("process started", "name", opts.Name, "args", opts.Args, "pid", cmd.Process.Pid, "dir", opts.Dir)

	err := cmd.Wait()
	duration := time.Since(startTime)

	result := &RunResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: -1,
		Duration: duration,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	metrics.CollaboratorRunsTotal.WithLabelValues(opts.Name, strconv.Itoa(result.ExitCode)).Inc()
	metrics.CollaboratorDuration.WithLabelValues(opts.Name).Observe(duration.Seconds())
	span.SetAttributes(attribute.Int("process.exit.code", result.ExitCode))

	if ctxErr := runCtx.Err(); ctxErr != nil {
		span.SetStatus(codes.Error, "interrupted")
		return result, apperror.Aborted("%s %s interrupted: %v", opts.Name, firstArg(opts.Args), ctxErr)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait failed")
		return result, apperror.Collaborator("Failed to execute %s command: %v", opts.Name, err)
	}

	log.Debug("process exited",
		"name", opts.Name,
		"exit_code", result.ExitCode,
		"duration", duration,
	)

	return result, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// CommandLine renders a name and args for log and error messages.
func CommandLine(name string, args []string) string {
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
