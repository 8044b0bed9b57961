// Package conventional builds conventional commit messages of the form
// type(scope): description [KEY-NUMBER].
package conventional

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/freema/fgit/internal/apperror"
)

// CommitType is the leading token of a conventional commit.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeBuild    CommitType = "build"
	TypeChore    CommitType = "chore"
	TypeCI       CommitType = "ci"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeTest     CommitType = "test"
)

// Types lists the accepted commit types in display order.
var Types = []CommitType{
	TypeFeat, TypeFix, TypeBuild, TypeChore, TypeCI,
	TypeDocs, TypeStyle, TypeRefactor, TypePerf, TypeTest,
}

// Valid reports whether t is one of Types.
func (t CommitType) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// TypeList renders Types as "feat, fix, ...".
func TypeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Request is a validated commit message request.
type Request struct {
	Type        CommitType `validate:"commit_type"`
	Scope       string
	Description string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("commit_type", func(fl validator.FieldLevel) bool {
		return CommitType(fl.Field().String()).Valid()
	})
	return v
}

// NewRequest normalizes raw command-line input into a Request. Type and
// scope are lowercased; description tokens are joined with single spaces and
// may be empty. An unknown type yields an apperror.ErrValidation error whose
// message is ready to show to the user.
func NewRequest(commitType, scope string, description []string) (Request, error) {
	req := Request{
		Type:        CommitType(strings.ToLower(commitType)),
		Scope:       strings.ToLower(scope),
		Description: strings.Join(description, " "),
	}

	if err := validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Request{}, apperror.Validation("Invalid commit type '%s'.\nValid types are %s", req.Type, TypeList())
		}
		return Request{}, fmt.Errorf("validating commit request: %w", err)
	}
	return req, nil
}

// Compose renders the commit message, appending " [KEY-NUMBER]" when tag is set.
func Compose(req Request, tag *IssueTag) string {
	msg := fmt.Sprintf("%s(%s): %s", req.Type, req.Scope, req.Description)
	if tag != nil {
		msg += " [" + tag.String() + "]"
	}
	return msg
}

// ComposeForBranch renders the commit message with the issue tag derived from branch, if any.
func ComposeForBranch(req Request, branch string) string {
	if tag, ok := ParseIssueTag(branch); ok {
		return Compose(req, &tag)
	}
	return Compose(req, nil)
}
