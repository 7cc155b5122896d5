package snapshot

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GradleRunner runs the task with a Gradle installation.
type GradleRunner struct {
	// Binary is the gradle executable. When empty the workspace wrapper
	// (./gradlew) is used if present, otherwise "gradle" from PATH.
	Binary string
	// Env is appended to the inherited environment.
	Env []string
	// Offline adds --offline.
	Offline bool
	Logger  logrus.FieldLogger
}

// ErrGradleNotFound is returned when no Gradle executable can be located.
var ErrGradleNotFound = errors.New("gradle executable not found")

// LookupGradle returns the gradle executable on PATH.
func LookupGradle() (string, error) {
	path, err := exec.LookPath("gradle")
	if err != nil {
		return "", ErrGradleNotFound
	}
	return path, nil
}

func (g *GradleRunner) binary(dir string) (string, error) {
	if g.Binary != "" {
		return g.Binary, nil
	}
	wrapper := filepath.Join(dir, "gradlew")
	if info, err := os.Stat(wrapper); err == nil && !info.IsDir() {
		return wrapper, nil
	}
	return LookupGradle()
}

// Run implements BuildRunner. A non-zero exit code is not an error: the
// outcome of the failing task is reported in the result together with the log.
func (g *GradleRunner) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	bin, err := g.binary(req.Dir)
	if err != nil {
		return nil, err
	}

	args := []string{req.Task, "--console=plain"}
	if g.Offline {
		args = append(args, "--offline")
	}
	args = append(args, req.Args...)

	log := g.logger().WithFields(logrus.Fields{
		"task": req.Task,
		"dir":  req.Dir,
	})
	log.WithField("args", args).Debug("running gradle")

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = req.Dir
	cmd.Env = append(os.Environ(), g.Env...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err = cmd.Run()
	exitCode := 0
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return nil, errors.Wrapf(err, "running %s", bin)
		}
		exitCode = ee.ExitCode()
	}
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "gradle build cancelled")
	}

	result := &BuildResult{
		Tasks:    ParseTaskOutcomes(out.String()),
		Log:      out.String(),
		ExitCode: exitCode,
	}
	log.WithFields(logrus.Fields{
		"exit_code": exitCode,
		"duration":  time.Since(start).String(),
	}).Debug("gradle finished")
	return result, nil
}

func (g *GradleRunner) logger() logrus.FieldLogger {
	if g.Logger != nil {
		return g.Logger
	}
	return logrus.StandardLogger()
}
