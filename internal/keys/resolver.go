// Package keys resolves the GitLab credentials used by `fgit mrs`.
package keys

import (
	"os"

	"github.com/freema/fgit/internal/apperror"
)

const (
	TokenEnv     = "GITLAB_TOKEN"
	ProjectIDEnv = "GITLAB_PROJECT_ID"
)

// Resolver reads credentials from the environment.
type Resolver struct {
	getenv func(string) string
}

// NewResolver creates a resolver over getenv. Nil means os.Getenv.
func NewResolver(getenv func(string) string) *Resolver {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Resolver{getenv: getenv}
}

// ResolveToken returns the GitLab access token from the environment.
func (r *Resolver) ResolveToken() (string, error) {
	if t := r.getenv(TokenEnv); t != "" {
		return t, nil
	}
	return "", apperror.MissingCredential("Missing %s environment variable", TokenEnv)
}

// ResolveProjectID resolves the project using a priority chain:
// 1. Positional argument
// 2. GITLAB_PROJECT_ID environment variable
func (r *Resolver) ResolveProjectID(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if id := r.getenv(ProjectIDEnv); id != "" {
		return id, nil
	}
	return "", apperror.MissingCredential("Missing project-id argument, or try adding a %s environment variable", ProjectIDEnv)
}
