package snapshot

import (
	"bufio"
	"context"
	"regexp"
	"strings"
)

// TaskOutcome is the outcome a build tool reports for a task.
type TaskOutcome string

const (
	OutcomeSuccess   TaskOutcome = "SUCCESS"
	OutcomeFailed    TaskOutcome = "FAILED"
	OutcomeUpToDate  TaskOutcome = "UP-TO-DATE"
	OutcomeSkipped   TaskOutcome = "SKIPPED"
	OutcomeFromCache TaskOutcome = "FROM-CACHE"
	OutcomeNoSource  TaskOutcome = "NO-SOURCE"
)

// BuildRequest asks a runner to execute one task in a prepared workspace.
type BuildRequest struct {
	// Dir is the workspace root holding the descriptor and sources.
	Dir string
	// Task is the task name without the leading colon.
	Task string
	// Args are extra command line flags, e.g. --stacktrace.
	Args []string

	// Descriptor and Flags describe what was written to Dir. Runners that
	// execute the real build tool read the files instead.
	Dialect    Dialect
	Descriptor Descriptor
	Flags      TemplateFlags
}

// BuildResult is what a runner reports back.
type BuildResult struct {
	// Tasks maps task paths (":graphqlGenerateSDL") to their outcome.
	Tasks map[string]TaskOutcome
	// Log is the combined build output.
	Log      string
	ExitCode int
}

// Outcome returns the outcome of the task at path. A path without the leading
// colon is accepted.
func (r *BuildResult) Outcome(path string) (TaskOutcome, bool) {
	if r == nil {
		return "", false
	}
	if !strings.HasPrefix(path, ":") {
		path = ":" + path
	}
	outcome, ok := r.Tasks[path]
	return outcome, ok
}

// BuildRunner executes the schema generation task.
type BuildRunner interface {
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRunnerFunc adapts a function to BuildRunner.
type BuildRunnerFunc func(ctx context.Context, req BuildRequest) (*BuildResult, error)

// Run implements BuildRunner.
func (f BuildRunnerFunc) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	return f(ctx, req)
}

var taskLineRe = regexp.MustCompile(`^> Task (:\S+)(?:\s+(\S+))?\s*$`)

// ParseTaskOutcomes reads "> Task :name OUTCOME" lines of plain console
// output. A task line without an outcome means the task executed; it is
// marked SUCCESS unless the build reports the task as failed afterwards.
func ParseTaskOutcomes(log string) map[string]TaskOutcome {
	tasks := make(map[string]TaskOutcome)
	scanner := bufio.NewScanner(strings.NewReader(log))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		outcome := TaskOutcome(m[2])
		if outcome == "" {
			outcome = OutcomeSuccess
		}
		tasks[m[1]] = outcome
	}
	for path := range tasks {
		if strings.Contains(log, "Execution failed for task '"+path+"'") {
			tasks[path] = OutcomeFailed
		}
	}
	return tasks
}
