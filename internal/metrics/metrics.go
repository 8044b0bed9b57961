package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the metrics of a single fgit invocation. It is not exposed
// over HTTP; WriteTextfile dumps it for the node exporter textfile collector.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// CommandsTotal counts fgit invocations by subcommand and outcome.
	CommandsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgit_commands_total",
			Help: "Total number of fgit commands run",
		},
		[]string{"command", "outcome"},
	)

	// CollaboratorRunsTotal counts external process invocations by executable and exit code.
	CollaboratorRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgit_collaborator_runs_total",
			Help: "Total number of external processes spawned",
		},
		[]string{"executable", "exit_code"},
	)

	// CollaboratorDuration tracks how long external processes ran, in seconds.
	CollaboratorDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fgit_collaborator_duration_seconds",
			Help:    "External process run time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"executable"},
	)

	// GitLabRequestsTotal counts merge-request listing calls by HTTP status.
	GitLabRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgit_gitlab_requests_total",
			Help: "Total number of GitLab API requests",
		},
		[]string{"status"},
	)
)

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format. The write is atomic (temp file + rename).
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
