package cli

import (
	"context"
	"io"
	"sync"
)

// MockResponse defines the outcome of a mocked process run.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// CommandMatcher reports whether a run matches a rule.
type CommandMatcher func(name string, args []string) bool

// MockRule defines a matching rule and its response.
type MockRule struct {
	Match    CommandMatcher
	Response MockResponse
}

// MockCall records a process invocation for verification.
type MockCall struct {
	Name string
	Args []string
	Dir  string
}

// MockRunner returns pre-recorded responses instead of spawning processes.
// Rules are matched in registration order; unmatched runs succeed silently.
type MockRunner struct {
	mu    sync.Mutex
	rules []MockRule
	calls []MockCall
}

// NewMockRunner creates an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// AddRule adds a matching rule with its response.
func (m *MockRunner) AddRule(match CommandMatcher, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, MockRule{Match: match, Response: response})
}

// AddExactMatch adds a rule that matches a specific command exactly.
func (m *MockRunner) AddExactMatch(name string, args []string, response MockResponse) {
	m.AddRule(func(n string, a []string) bool {
		return n == name && equalArgs(a, args)
	}, response)
}

// AddPrefixMatch adds a rule that matches commands starting with specific args.
func (m *MockRunner) AddPrefixMatch(name string, prefixArgs []string, response MockResponse) {
	m.AddRule(func(n string, a []string) bool {
		return n == name && len(a) >= len(prefixArgs) && equalArgs(a[:len(prefixArgs)], prefixArgs)
	}, response)
}

// Calls returns all recorded invocations.
func (m *MockRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Called reports whether a run with exactly these args was recorded.
func (m *MockRunner) Called(name string, args ...string) bool {
	for _, c := range m.Calls() {
		if c.Name == name && equalArgs(c.Args, args) {
			return true
		}
	}
	return false
}

// Run records the call and replays the first matching response.
func (m *MockRunner) Run(_ context.Context, opts RunOptions) (*RunResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Name: opts.Name, Args: append([]string(nil), opts.Args...), Dir: opts.Dir})
	var resp MockResponse
	for _, rule := range m.rules {
		if rule.Match(opts.Name, opts.Args) {
			resp = rule.Response
			break
		}
	}
	m.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}

	result := &RunResult{ExitCode: resp.ExitCode}
	if opts.Stdout != nil {
		io.WriteString(opts.Stdout, resp.Stdout)
	} else {
		result.Stdout = resp.Stdout
	}
	if opts.Stderr != nil {
		io.WriteString(opts.Stderr, resp.Stderr)
	} else {
		result.Stderr = resp.Stderr
	}
	return result, nil
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var _ Runner = (*ExecRunner)(nil)
var _ Runner = (*MockRunner)(nil)
