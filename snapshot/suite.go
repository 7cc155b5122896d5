package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Suite is a YAML file listing cases:
//
//	parallelism: 2
//	defaults:
//	  packages: [com.example]
//	cases:
//	  - name: kts-federated
//	    dialect: kts
//	    hooksDependency: com.expediagroup:graphql-kotlin-federated-hooks-provider:7.0.0
//	    fixture: federated
type Suite struct {
	Parallelism int         `yaml:"parallelism,omitempty"`
	Defaults    Descriptor  `yaml:"defaults,omitempty"`
	Cases       []SuiteCase `yaml:"cases"`
}

// SuiteCase is one case of a Suite. Descriptor fields left empty are taken
// from the suite defaults.
type SuiteCase struct {
	Name          string `yaml:"name"`
	Dialect       string `yaml:"dialect"`
	Descriptor    `yaml:",inline"`
	TemplateFlags `yaml:",inline"`
	// Fixture names the expected schema: "default", "federated" or a path
	// relative to the suite file. Empty picks the variant matching the
	// hooks dependency.
	Fixture string `yaml:"fixture,omitempty"`
}

// LoadSuite reads a suite file.
func LoadSuite(path string) (*Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading suite")
	}
	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrapf(err, "parsing suite %s", path)
	}
	if len(s.Cases) == 0 {
		return nil, errors.Errorf("suite %s has no cases", path)
	}
	return &s, nil
}

// ExpectedResolver resolves a fixture reference of a suite case to text.
type ExpectedResolver func(ctx context.Context, fixture string) (string, error)

// FileFixtures resolves built-in fixture names and paths relative to dir.
func FileFixtures(dir string) ExpectedResolver {
	return func(_ context.Context, fixture string) (string, error) {
		if text, err := FixtureByName(fixture); err == nil {
			return text, nil
		}
		path := fixture
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrapf(err, "reading fixture %s", fixture)
		}
		return string(b), nil
	}
}

// Resolve turns the suite into verifier cases, resolving fixture references
// with resolve.
func (s *Suite) Resolve(ctx context.Context, resolve ExpectedResolver) ([]Case, error) {
	cases := make([]Case, 0, len(s.Cases))
	for i, sc := range s.Cases {
		name := sc.Name
		if name == "" {
			return nil, errors.Errorf("case %d has no name", i)
		}
		dialect, err := ParseDialect(sc.Dialect)
		if err != nil {
			return nil, errors.Wrapf(err, "case %s", name)
		}

		c := Case{
			Name:       name,
			Dialect:    dialect,
			Descriptor: mergeDescriptor(s.Defaults, sc.Descriptor),
			Flags:      sc.TemplateFlags,
		}
		if sc.Fixture != "" {
			if c.Expected, err = resolve(ctx, sc.Fixture); err != nil {
				return nil, errors.Wrapf(err, "case %s", name)
			}
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func mergeDescriptor(defaults, d Descriptor) Descriptor {
	if d.TaskName == "" {
		d.TaskName = defaults.TaskName
	}
	if d.TaskType == "" {
		d.TaskType = defaults.TaskType
	}
	if len(d.Packages) == 0 {
		d.Packages = defaults.Packages
	}
	if d.HooksDependency == "" {
		d.HooksDependency = defaults.HooksDependency
	}
	if d.DependencyScope == "" {
		d.DependencyScope = defaults.DependencyScope
	}
	if d.PluginVersion == "" {
		d.PluginVersion = defaults.PluginVersion
	}
	if d.KotlinVersion == "" {
		d.KotlinVersion = defaults.KotlinVersion
	}
	return d
}

// CaseResult pairs a case with its verification outcome.
type CaseResult struct {
	Case   Case
	Result *Result
	Err    error
}

// Passed reports whether the case verified successfully.
func (r CaseResult) Passed() bool { return r.Err == nil }

// RunSuite verifies cases concurrently, each in its own temporary workspace,
// with at most parallelism cases in flight (GOMAXPROCS when not positive).
// Results are returned in case order. A failing case does not stop the others.
func RunSuite(ctx context.Context, v *Verifier, cases []Case, parallelism int) []CaseResult {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	results := make([]CaseResult, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			res, err := v.Run(ctx, c)
			results[i] = CaseResult{Case: c, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
