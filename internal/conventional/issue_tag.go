package conventional

import "strings"

// IssueBranchPrefix marks branches that carry an issue reference.
const IssueBranchPrefix = "issue/"

// IssueTag is a KEY-NUMBER reference derived from a branch name.
type IssueTag struct {
	Key    string
	Number string
}

// String renders the tag as KEY-NUMBER.
func (t IssueTag) String() string {
	return t.Key + "-" + t.Number
}

// ParseIssueTag extracts the issue tag encoded in branch.
//
// The branch must look like issue/<key>-<digits>[anything]. The key is
// everything up to the first '-' and must be non-empty; the number is the
// run of ASCII digits that follows and must be non-empty. Anything after
// the digits is ignored.
func ParseIssueTag(branch string) (IssueTag, bool) {
	rest, ok := strings.CutPrefix(branch, IssueBranchPrefix)
	if !ok {
		return IssueTag{}, false
	}

	key, candidate, ok := strings.Cut(rest, "-")
	if !ok || key == "" {
		return IssueTag{}, false
	}

	n := 0
	for n < len(candidate) && candidate[n] >= '0' && candidate[n] <= '9' {
		n++
	}
	if n == 0 {
		return IssueTag{}, false
	}

	return IssueTag{Key: key, Number: candidate[:n]}, true
}

// IssueBranchName builds the branch name for an issue, e.g. issue/ABC-42 or
// issue/ABC-42-retry when a non-blank suffix is given.
func IssueBranchName(keyNumber, suffix string) string {
	if strings.TrimSpace(suffix) != "" {
		return IssueBranchPrefix + keyNumber + "-" + suffix
	}
	return IssueBranchPrefix + keyNumber
}
