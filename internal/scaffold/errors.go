package scaffold

import "fmt"

// PhaseError wraps the error that stopped the pipeline in a given phase.
// Command failures unwrap to *executor.CommandError.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
