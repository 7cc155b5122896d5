package snapshot

import (
	"fmt"

	"github.com/kylelemons/godebug/diff"
)

// BuildFailureError is returned when the task did not report SUCCESS.
type BuildFailureError struct {
	Task    string
	Outcome TaskOutcome
	Log     string
}

func (e *BuildFailureError) Error() string {
	outcome := string(e.Outcome)
	if outcome == "" {
		outcome = "not executed"
	}
	return fmt.Sprintf("task %s: outcome %s, want %s\n%s", e.Task, outcome, OutcomeSuccess, e.Log)
}

// ArtifactMissingError is returned when the build succeeded but did not write
// the schema file.
type ArtifactMissingError struct {
	Path string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("generated schema %s does not exist", e.Path)
}

// MismatchError is returned when the normalized generated schema differs from
// the expected fixture.
type MismatchError struct {
	Expected string
	Actual   string
	// Diff is a line diff from Expected to Actual.
	Diff string
}

func newMismatchError(expected, actual string) *MismatchError {
	return &MismatchError{
		Expected: expected,
		Actual:   actual,
		Diff:     diff.Diff(expected, actual),
	}
}

func (e *MismatchError) Error() string {
	return "generated schema does not match expected (-expected +actual):\n" + e.Diff
}
