// Package snapshot verifies schema generation builds against known-good SDL.
//
// A Verifier materializes a throwaway project (source set plus a build
// descriptor in one dialect), runs the schema generation task through a
// BuildRunner, reads build/schema.graphql and compares it with the expected
// fixture after Normalize. Every case owns its workspace, so cases can run
// concurrently (see RunSuite).
package snapshot

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultArgs are passed to every build.
var DefaultArgs = []string{"--stacktrace"}

// Case is one verification: a dialect, a descriptor, template flags and the
// expected schema.
type Case struct {
	Name       string
	Dialect    Dialect
	Descriptor Descriptor
	Flags      TemplateFlags
	// Expected is the fixture text. When empty FixtureFor(Descriptor) is used.
	Expected string
}

// Result describes a finished verification.
type Result struct {
	Case      string
	RunID     string
	Workspace string
	Outcome   TaskOutcome
	// Actual is the normalized generated schema, empty when the build failed.
	Actual   string
	Log      string
	Duration time.Duration
}

// Verifier runs cases through a BuildRunner.
type Verifier struct {
	Runner BuildRunner
	Logger logrus.FieldLogger
	// Args override DefaultArgs.
	Args []string
	// TempDir is the parent of workspaces allocated by Run.
	TempDir string
	// KeepWorkspaces disables removal of workspaces allocated by Run.
	KeepWorkspaces bool
}

// NewVerifier returns a verifier using runner.
func NewVerifier(runner BuildRunner, logger logrus.FieldLogger) *Verifier {
	return &Verifier{Runner: runner, Logger: logger}
}

// Run verifies c in a fresh temporary workspace.
func (v *Verifier) Run(ctx context.Context, c Case) (*Result, error) {
	ws, err := NewTempWorkspace(v.TempDir, c.Name)
	if err != nil {
		return nil, err
	}
	if !v.KeepWorkspaces {
		defer func() {
			if err := ws.Remove(); err != nil {
				v.logger().WithError(err).WithField("workspace", ws.Root).Warn("removing workspace")
			}
		}()
	}
	return v.verify(ctx, ws, c)
}

// Verify verifies c in root, which the caller owns.
func (v *Verifier) Verify(ctx context.Context, root string, c Case) (*Result, error) {
	ws, err := OpenWorkspace(root)
	if err != nil {
		return nil, err
	}
	return v.verify(ctx, ws, c)
}

// Prepare writes the source set and the build descriptor of c into ws
// without running a build.
func Prepare(ws *Workspace, c Case) (Descriptor, error) {
	d := c.Descriptor.WithDefaults()
	if err := d.Validate(); err != nil {
		return d, err
	}
	if _, err := WriterFor(c.Dialect); err != nil {
		return d, err
	}
	if err := WriteSources(ws, d, c.Flags); err != nil {
		return d, err
	}
	if err := WriteDescriptor(ws, c.Dialect, d); err != nil {
		return d, err
	}
	return d, nil
}

func (v *Verifier) verify(ctx context.Context, ws *Workspace, c Case) (*Result, error) {
	if v.Runner == nil {
		return nil, errors.New("verifier has no build runner")
	}
	start := time.Now()
	result := &Result{Case: c.Name, RunID: ws.RunID, Workspace: ws.Root}
	defer func() { result.Duration = time.Since(start) }()
	log := v.logger().WithFields(logrus.Fields{
		"run_id":  ws.RunID,
		"case":    c.Name,
		"dialect": c.Dialect,
	})

	d, err := Prepare(ws, c)
	if err != nil {
		return result, errors.Wrapf(err, "preparing workspace %s", ws.Root)
	}
	log = log.WithField("task", d.TaskName)

	args := v.Args
	if args == nil {
		args = DefaultArgs
	}
	log.Debug("running build")
	build, err := v.Runner.Run(ctx, BuildRequest{
		Dir:        ws.Root,
		Task:       d.TaskName,
		Args:       args,
		Dialect:    c.Dialect,
		Descriptor: d,
		Flags:      c.Flags,
	})
	if err != nil {
		return result, errors.Wrapf(err, "running task %s", d.TaskName)
	}
	result.Log = build.Log
	result.Outcome, _ = build.Outcome(d.TaskName)

	if result.Outcome != OutcomeSuccess {
		log.WithField("outcome", result.Outcome).Info("build failed")
		return result, &BuildFailureError{Task: ":" + d.TaskName, Outcome: result.Outcome, Log: build.Log}
	}

	actual, err := ws.ReadFile(ArtifactPath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, &ArtifactMissingError{Path: ws.Path(ArtifactPath)}
		}
		return result, errors.Wrap(err, "reading generated schema")
	}
	result.Actual = Normalize(actual)

	expected := c.Expected
	if expected == "" {
		expected = FixtureFor(d)
	}
	if want := Normalize(expected); want != result.Actual {
		log.Info("schema mismatch")
		return result, newMismatchError(want, result.Actual)
	}

	log.Debug("schema matches")
	return result, nil
}

func (v *Verifier) logger() logrus.FieldLogger {
	if v.Logger != nil {
		return v.Logger
	}
	return logrus.StandardLogger()
}
