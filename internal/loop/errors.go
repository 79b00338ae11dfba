package loop

import "fmt"

// Collaborator names used in error reporting.
const (
	CollaboratorResearcher = "researcher"
	CollaboratorCritic     = "critic"
)

// ValidationError reports a rejected query before any collaborator call or
// store write happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + e.Reason
}

// CollaboratorError reports a failed researcher or critic call. The round
// number identifies which research/critique pair was in flight.
type CollaboratorError struct {
	Collaborator string
	Round        int
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed on round %d: %v", e.Collaborator, e.Round, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
