package issue

import (
	"fmt"

	"github.com/freema/fgit/internal/apperror"
)

// State is a step of the issue branch creation loop.
type State string

const (
	StateProposeName        State = "propose_name"
	StateCheckExists        State = "check_exists"
	StateCreateBranch       State = "create_branch"
	StatePromptForNewSuffix State = "prompt_for_new_suffix"
)

// validTransitions defines valid state machine transitions.
var validTransitions = map[State][]State{
	StateProposeName:        {StateCheckExists},
	StateCheckExists:        {StateCreateBranch, StatePromptForNewSuffix},
	StatePromptForNewSuffix: {StateProposeName},
	StateCreateBranch:       {}, // terminal
}

// ValidateTransition checks if the transition from current to next state is valid.
func ValidateTransition(current, next State) error {
	allowed, ok := validTransitions[current]
	if !ok {
		return &apperror.AppError{
			Err:      apperror.ErrInvalidTransition,
			Message:  fmt.Sprintf("unknown state: %s", current),
			ExitCode: 1,
		}
	}

	for _, s := range allowed {
		if s == next {
			return nil
		}
	}

	return &apperror.AppError{
		Err:      apperror.ErrInvalidTransition,
		Message:  fmt.Sprintf("invalid transition: %s → %s", current, next),
		ExitCode: 1,
	}
}

// IsTerminal returns true if no transition leaves s.
func IsTerminal(s State) bool {
	return s == StateCreateBranch
}
