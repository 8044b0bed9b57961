package git

import (
	"context"
	"fmt"
	"strings"
)

// ChangesSummary counts pending working tree changes by kind.
type ChangesSummary struct {
	FilesModified int      `json:"files_modified"`
	FilesCreated  int      `json:"files_created"`
	FilesDeleted  int      `json:"files_deleted"`
	Lines         []string `json:"-"`
}

// HasChanges reports whether anything is pending.
func (s *ChangesSummary) HasChanges() bool {
	return len(s.Lines) > 0
}

// Status runs `git status -s` and summarizes its output.
func (c *Client) Status(ctx context.Context) (*ChangesSummary, error) {
	res, err := c.run(ctx, "status", "-s")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	if !res.Success() {
		return nil, fmt.Errorf("git status: exit %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return parseShortStatus(res.Stdout), nil
}

// parseShortStatus parses `git status -s` lines like " M main.go" or "?? new.txt".
func parseShortStatus(out string) *ChangesSummary {
	summary := &ChangesSummary{}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 3 {
			continue
		}
		summary.Lines = append(summary.Lines, line)
		xy := line[:2]
		switch {
		case xy == "??" || strings.Contains(xy, "A"):
			summary.FilesCreated++
		case strings.Contains(xy, "D"):
			summary.FilesDeleted++
		default:
			// modified, renamed, copied, type-changed
			summary.FilesModified++
		}
	}
	return summary
}
