package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freema/fgit/internal/cli"
	"github.com/freema/fgit/internal/config"
	"github.com/freema/fgit/internal/logger"
)

type harness struct {
	app    *App
	runner *cli.MockRunner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	env    map[string]string
}

func newHarness(t *testing.T, stdin string, mutate ...func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Defaults()
	cfg.Update.RepoDir = "/opt/fgit"
	cfg.Update.BuildCommand = []string{"go", "build", "-o", "fgit", "./cmd/fgit"}
	for _, m := range mutate {
		m(cfg)
	}

	h := &harness{
		runner: cli.NewMockRunner(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		env:    map[string]string{},
	}
	h.app = New(Options{
		Config:  cfg,
		Runner:  h.runner,
		Stdio:   cli.Stdio{In: strings.NewReader(stdin), Out: h.stdout, Err: h.stderr},
		Version: "2.1.0",
		Getenv:  func(k string) string { return h.env[k] },
		Executable: func() (string, error) {
			return "", errors.New("not used")
		},
	})
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Execute(context.Background(), args)
}

func (h *harness) onBranch(branch string) {
	h.runner.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"},
		cli.MockResponse{Stdout: branch + "\n"})
}

func (h *harness) commitMessages() []string {
	var msgs []string
	for _, c := range h.runner.Calls() {
		if len(c.Args) == 3 && c.Args[0] == "commit" && c.Args[1] == "-m" {
			msgs = append(msgs, c.Args[2])
		}
	}
	return msgs
}

func TestNoArgsPrintsHelpAndFails(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 1, h.run())
	assert.Equal(t, helpText, h.stdout.String())
	assert.Empty(t, h.runner.Calls())
}

func TestHelp(t *testing.T) {
	for _, flag := range []string{"--fgit-help", "--help"} {
		h := newHarness(t, "")
		assert.Equal(t, 0, h.run(flag), flag)
		assert.Equal(t, helpText, h.stdout.String())
		assert.Contains(t, h.stdout.String(), "commit <type> <scope> <description>")
		assert.Contains(t, h.stdout.String(), "finish")
		assert.Empty(t, h.stderr.String())
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 0, h.run("--version"))
	assert.Equal(t, "fgit version 2.1.0\n", h.stdout.String())
}

func TestPassthrough(t *testing.T) {
	h := newHarness(t, "")
	h.runner.AddExactMatch("git", []string{"log", "--oneline", "-n", "3"}, cli.MockResponse{ExitCode: 128})

	assert.Equal(t, 128, h.run("log", "--oneline", "-n", "3"))
	assert.True(t, h.runner.Called("git", "log", "--oneline", "-n", "3"))
}

func TestPassthrough_CustomBinary(t *testing.T) {
	h := newHarness(t, "", func(c *config.Config) { c.Git.Binary = "/usr/local/bin/git" })

	assert.Equal(t, 0, h.run("status"))
	assert.True(t, h.runner.Called("/usr/local/bin/git", "status"))
}

func TestPassthrough_InterruptLeavesChildRunning(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := config.Defaults()
	cfg.Git.Binary = "sh"
	app := New(Options{
		Config: cfg,
		Runner: cli.NewExecRunner(),
		Stdio:  cli.Stdio{In: strings.NewReader(""), Out: &stdout, Err: &stderr},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(200*time.Millisecond, cancel)

	code := app.Execute(ctx, []string{"-c", "trap '' INT; sleep 1; exit 7"})
	assert.Equal(t, 7, code)
	assert.Empty(t, stderr.String())
}

func TestCommandName(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, "help", h.app.CommandName(nil))
	assert.Equal(t, "commit", h.app.CommandName([]string{"commit", "fix"}))
	assert.Equal(t, "--version", h.app.CommandName([]string{"--version"}))
	assert.Equal(t, PassthroughCommand, h.app.CommandName([]string{"rebase", "-i"}))
}

func TestCommit(t *testing.T) {
	tests := []struct {
		name   string
		branch string
		args   []string
		want   string
	}{
		{"issue branch", "issue/ABC-42-retry", []string{"fix", "parser", "null", "deref"}, "fix(parser): null deref [ABC-42]"},
		{"plain branch", "main", []string{"chore", "deps", "bump"}, "chore(deps): bump"},
		{"case normalized", "main", []string{"FEAT", "API", "Add", "Thing"}, "feat(api): Add Thing"},
		{"issue branch without digits", "issue/ABC-x", []string{"docs", "readme", "typo"}, "docs(readme): typo"},
		{"empty description", "main", []string{"ci", "build"}, "ci(build): "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")
			h.onBranch(tt.branch)

			assert.Equal(t, 0, h.run(append([]string{"commit"}, tt.args...)...))
			assert.Equal(t, []string{tt.want}, h.commitMessages())
		})
	}
}

func TestCommit_BranchLookupFailureIsQuiet(t *testing.T) {
	h := newHarness(t, "")
	h.runner.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"},
		cli.MockResponse{Stderr: "fatal: ambiguous argument 'HEAD'", ExitCode: 128})

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := logger.WithContext(context.Background(), log)

	assert.Equal(t, 0, h.app.Execute(ctx, []string{"commit", "feat", "init", "first"}))
	assert.Equal(t, []string{"feat(init): first"}, h.commitMessages())
	assert.Empty(t, logs.String())
	assert.Empty(t, h.stderr.String())
}

func TestCommit_InvalidType(t *testing.T) {
	h := newHarness(t, "")
	h.onBranch("main")

	assert.Equal(t, 1, h.run("commit", "feature", "x", "y"))
	assert.Equal(t,
		"Invalid commit type 'feature'.\nValid types are feat, fix, build, chore, ci, docs, style, refactor, perf, test\n",
		h.stderr.String())
	assert.Equal(t, helpHint, h.stdout.String())
	assert.Empty(t, h.commitMessages())
}

func TestCommit_Usage(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, 1, h.run("commit", "fix"))
	assert.Equal(t, "Usage: fgit commit <type> <scope> <description>\n", h.stderr.String())
	assert.Equal(t, helpHint, h.stdout.String())
	assert.Empty(t, h.runner.Calls())
}

func TestCommit_ExitCodePropagates(t *testing.T) {
	h := newHarness(t, "")
	h.onBranch("main")
	h.runner.AddPrefixMatch("git", []string{"commit"}, cli.MockResponse{Stdout: "nothing to commit\n", ExitCode: 1})

	assert.Equal(t, 1, h.run("commit", "fix", "x", "y"))
	assert.Equal(t, "nothing to commit\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestIssue_Usage(t *testing.T) {
	for _, args := range [][]string{{"issue"}, {"issue", "ABC-1", "a", "b"}} {
		h := newHarness(t, "")
		assert.Equal(t, 1, h.run(args...))
		assert.Equal(t, "Usage: fgit issue <issue-key>-<issue-number> [suffix]\n", h.stderr.String())
		assert.Empty(t, h.runner.Calls())
	}
}

func TestIssue_ExistingBranch(t *testing.T) {
	h := newHarness(t, "login\n")
	h.runner.AddExactMatch("git", []string{"show-ref", "--verify", "--quiet", "refs/heads/issue/ABC-7"}, cli.MockResponse{})
	h.runner.AddPrefixMatch("git", []string{"show-ref"}, cli.MockResponse{ExitCode: 1})

	assert.Equal(t, 0, h.run("issue", "ABC-7"))
	assert.Contains(t, h.stdout.String(), "A branch named 'issue/ABC-7' already exists. Please enter a new suffix:")
	assert.True(t, h.runner.Called("git", "checkout", "-b", "issue/ABC-7-login"))
	assert.False(t, h.runner.Called("git", "checkout", "-b", "issue/ABC-7"))
}

func fakeGitLab(t *testing.T, hits *int32, status int, body string) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/v4/projects/{id}/merge_requests", func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(hits, 1)
		if req.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("X-Project", chi.URLParam(req, "id"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestMrs_MissingToken(t *testing.T) {
	var hits int32
	url := fakeGitLab(t, &hits, http.StatusOK, `[]`)
	h := newHarness(t, "", func(c *config.Config) { c.GitLab.BaseURL = url })
	h.env["GITLAB_PROJECT_ID"] = "123"

	assert.Equal(t, 1, h.run("mrs"))
	assert.Equal(t, "Error: Missing GITLAB_TOKEN environment variable\n", h.stderr.String())
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestMrs_MissingProject(t *testing.T) {
	var hits int32
	url := fakeGitLab(t, &hits, http.StatusOK, `[]`)
	h := newHarness(t, "", func(c *config.Config) { c.GitLab.BaseURL = url })
	h.env["GITLAB_TOKEN"] = "tok"

	assert.Equal(t, 1, h.run("mrs"))
	assert.Equal(t, "Error: Missing project-id argument, or try adding a GITLAB_PROJECT_ID environment variable\n", h.stderr.String())
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestMrs_Lists(t *testing.T) {
	var hits int32
	url := fakeGitLab(t, &hits, http.StatusOK,
		`[{"title":"Add login","author":{"name":"Ann"},"web_url":"https://gitlab.com/g/p/-/merge_requests/1"}]`)
	h := newHarness(t, "", func(c *config.Config) { c.GitLab.BaseURL = url })
	h.env["GITLAB_TOKEN"] = "tok"
	h.env["GITLAB_PROJECT_ID"] = "999"

	assert.Equal(t, 0, h.run("mrs", "123"))
	assert.Equal(t, "Add login by Ann (https://gitlab.com/g/p/-/merge_requests/1)\n", h.stdout.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestMrs_RemoteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"non-success", http.StatusNotFound, `{"message":"404 Project Not Found"}`, "Error: Failed to list merge requests: 404\n"},
		{"missing field", http.StatusOK, `[{"title":"T","web_url":"u"}]`, "Error: Missing merge request author name\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			url := fakeGitLab(t, &hits, tt.status, tt.body)
			h := newHarness(t, "", func(c *config.Config) { c.GitLab.BaseURL = url })
			h.env["GITLAB_TOKEN"] = "tok"

			assert.Equal(t, 1, h.run("mrs", "1"))
			assert.Equal(t, tt.want, h.stderr.String())
			assert.Empty(t, h.stdout.String())
		})
	}
}

func TestFinish_CleanTree(t *testing.T) {
	h := newHarness(t, "")
	h.onBranch("issue/ABC-1")

	assert.Equal(t, 0, h.run("finish"))
	assert.True(t, h.runner.Called("git", "push", "-u", "origin", "issue/ABC-1"))
	assert.Empty(t, h.stdout.String())
}

func TestFinish_PendingChanges(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		wantCode int
		pushed   bool
	}{
		{"confirmed", "y\n", 0, true},
		{"declined", "n\n", 1, false},
		{"no answer", "", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.answer, func(c *config.Config) { c.Push.Remote = "upstream" })
			h.onBranch("feature")
			h.runner.AddExactMatch("git", []string{"status", "-s"}, cli.MockResponse{Stdout: " M main.go\n"})

			assert.Equal(t, tt.wantCode, h.run("finish"))
			assert.Equal(t, tt.pushed, h.runner.Called("git", "push", "-u", "upstream", "feature"))
			assert.Contains(t, h.stdout.String(), "You have pending changes in your tree.\n")
			assert.Contains(t, h.stdout.String(), "Are you sure you want to push your changes? (y/N) ")
			if !tt.pushed {
				assert.Contains(t, h.stdout.String(), "Aborting...")
			}
		})
	}
}

func TestUpdate_UpToDate(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, 0, h.run("update"))
	assert.Equal(t, "fgit is up to date\n", h.stdout.String())

	calls := h.runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"fetch", "--dry-run", "origin", "main"}, calls[0].Args)
	assert.Equal(t, "/opt/fgit", calls[0].Dir)
}

func (h *harness) updateAvailable() {
	h.runner.AddPrefixMatch("git", []string{"fetch", "--dry-run"},
		cli.MockResponse{Stderr: "From github.com:freema/fgit\n   1a2b3c4..5d6e7f8  main -> origin/main\n"})
}

func TestUpdate_Declined(t *testing.T) {
	h := newHarness(t, "n\n")
	h.updateAvailable()

	assert.Equal(t, 0, h.run("update"))
	assert.Contains(t, h.stdout.String(), "New version of fgit is available. Do you want to update? (y/n) ")
	assert.False(t, h.runner.Called("git", "pull", "origin", "main"))
}

func TestUpdate_PullAndBuild(t *testing.T) {
	h := newHarness(t, "y\n")
	h.updateAvailable()

	assert.Equal(t, 0, h.run("update"))
	assert.True(t, h.runner.Called("git", "pull", "origin", "main"))
	assert.True(t, h.runner.Called("go", "build", "-o", "fgit", "./cmd/fgit"))
	assert.True(t, strings.HasSuffix(h.stdout.String(), "Project built successfully\n"))
}

func TestUpdate_BuildFails(t *testing.T) {
	h := newHarness(t, "y\n")
	h.updateAvailable()
	h.runner.AddPrefixMatch("go", []string{"build"}, cli.MockResponse{Stderr: "main.go:1: syntax error\n", ExitCode: 2})

	assert.Equal(t, 1, h.run("update"))
	assert.Equal(t, "Build failed:\nmain.go:1: syntax error\n", h.stderr.String())
	assert.NotContains(t, h.stdout.String(), "Project built successfully")
}

func TestUpdate_DefaultsToExecutableDir(t *testing.T) {
	h := newHarness(t, "", func(c *config.Config) { c.Update.RepoDir = "" })
	h.app.executable = func() (string, error) { return "/nonexistent/fgit-src/fgit", nil }

	assert.Equal(t, 0, h.run("update"))
	calls := h.runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/nonexistent/fgit-src", calls[0].Dir)
}
