package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	// The federated hooks provider is always available to generated builds.
	_ "go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/hooks"
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/sdl"
)

// PackageSource registers the schema types a package contributes. It is the
// in-process counterpart of the classes a package scan finds.
type PackageSource func(schema *schemabuilder.Schema, flags TemplateFlags) error

var (
	packagesMu sync.RWMutex
	packages   = make(map[string]PackageSource)
)

// RegisterPackage makes src visible to GeneratorRunner scans of pkg or any
// parent package. It panics on duplicate registration.
func RegisterPackage(pkg string, src PackageSource) {
	packagesMu.Lock()
	defer packagesMu.Unlock()
	if _, dup := packages[pkg]; dup {
		panic("snapshot: RegisterPackage called twice for " + pkg)
	}
	packages[pkg] = src
}

// scan returns the registered packages under any of roots, sorted.
func scan(roots []string) []string {
	packagesMu.RLock()
	defer packagesMu.RUnlock()
	var found []string
	for name := range packages {
		for _, root := range roots {
			if name == root || strings.HasPrefix(name, root+".") {
				found = append(found, name)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// GeneratorRunner runs the schema generation task in process: it builds the
// schema of the scanned packages with schemabuilder, applies the hooks
// provider the descriptor depends on and writes the SDL to ArtifactPath. Its
// log and outcomes mimic Gradle's plain console output.
type GeneratorRunner struct {
	Logger logrus.FieldLogger
}

// Run implements BuildRunner.
func (g *GeneratorRunner) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := req.Descriptor.WithDefaults()
	path := ":" + req.Task

	log := g.logger().WithFields(logrus.Fields{
		"task":     req.Task,
		"dir":      req.Dir,
		"packages": d.Packages,
	})

	if req.Task != d.TaskName {
		return &BuildResult{
			Tasks:    map[string]TaskOutcome{},
			Log:      fmt.Sprintf("FAILURE: Build failed with an exception.\n\n* What went wrong:\nTask '%s' not found in root project.\n\nBUILD FAILED\n", req.Task),
			ExitCode: 1,
		}, nil
	}

	sdlText, err := g.generate(d, req.Flags)
	if err != nil {
		log.WithError(err).Debug("schema generation failed")
		return failedTask(path, err), nil
	}

	out := filepath.Join(req.Dir, filepath.FromSlash(ArtifactPath))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating build directory")
	}
	if err := os.WriteFile(out, []byte(sdlText), 0o644); err != nil {
		return nil, errors.Wrap(err, "writing schema")
	}

	log.Debug("schema generated")
	return &BuildResult{
		Tasks:    map[string]TaskOutcome{path: OutcomeSuccess},
		Log:      fmt.Sprintf("> Task %s\n\nBUILD SUCCESSFUL\n1 actionable task: 1 executed\n", path),
		ExitCode: 0,
	}, nil
}

func (g *GeneratorRunner) generate(d Descriptor, flags TemplateFlags) (string, error) {
	found := scan(d.Packages)
	if len(found) == 0 {
		return "", errors.Errorf("no schema types found in packages %s", strings.Join(d.Packages, ", "))
	}

	schema := schemabuilder.NewSchema()
	for _, name := range found {
		packagesMu.RLock()
		src := packages[name]
		packagesMu.RUnlock()
		if err := src(schema, flags); err != nil {
			return "", errors.Wrapf(err, "registering package %s", name)
		}
	}

	var opts []schemabuilder.BuildOption
	if d.HooksDependency != "" {
		provider, err := hooks.Lookup(d.HooksDependency)
		if err != nil {
			return "", err
		}
		opts = append(opts, schemabuilder.WithHooks(provider.Hooks()))
	}

	built, err := schema.Build(opts...)
	if err != nil {
		return "", errors.Wrap(err, "generating schema")
	}
	return sdl.Print(built), nil
}

func failedTask(path string, err error) *BuildResult {
	return &BuildResult{
		Tasks: map[string]TaskOutcome{path: OutcomeFailed},
		Log: fmt.Sprintf("> Task %s FAILED\n\nFAILURE: Build failed with an exception.\n\n* What went wrong:\nExecution failed for task '%s'.\n> %s\n\nBUILD FAILED\n",
			path, path, err),
		ExitCode: 1,
	}
}

func (g *GeneratorRunner) logger() logrus.FieldLogger {
	if g.Logger != nil {
		return g.Logger
	}
	return logrus.StandardLogger()
}
