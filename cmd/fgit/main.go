package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/command"
	"github.com/freema/fgit/internal/config"
	"github.com/freema/fgit/internal/logger"
	"github.com/freema/fgit/internal/metrics"
	"github.com/freema/fgit/internal/tracing"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], cli.OSStdio()))
}

func run(args []string, stdio cli.Stdio) int {
	cfg, err := config.Load(os.Getenv("FGIT_CONFIG"))
	if err != nil {
		fmt.Fprintf(stdio.Err, "Error: loading config: %v\n", err)
		return 1
	}

	invocationID := uuid.NewString()
	log := logger.Setup(cfg.Logging.Level, cfg.Logging.Format, stdio.Err).
		With("invocation_id", invocationID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		ServiceName:  "fgit",
		Version:      version,
	})
	if err != nil {
		log.Warn("tracing disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Warn("flushing traces", "error", err)
		}
	}()

	app := command.New(command.Options{
		Config:  cfg,
		Runner:  cli.NewExecRunner(),
		Stdio:   stdio,
		Version: version,
	})

	name := app.CommandName(args)
	ctx, span := tracing.Tracer().Start(ctx, "fgit "+name, tracing.WithCommandAttributes(name, invocationID))
	if traceID := tracing.TraceIDFromContext(ctx); traceID != "" {
		log = log.With("trace_id", traceID)
	}
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	code := app.Execute(ctx, args)
	span.SetAttributes(attribute.Int("fgit.exit_code", code))
	span.End()

	log.Debug("command finished", "exit_code", code, "duration", time.Since(start))

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("metrics not written", slog.String("path", cfg.Metrics.Textfile), slog.Any("error", err))
		}
	}

	return code
}
