package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/snapshot"
)

const (
	runnerGradle    = "gradle"
	runnerGenerator = "generator"
)

type verifyOptions struct {
	caseFlags

	suite       string
	expected    string
	fixture     string
	fixturesURL string
	update      bool

	runner   string
	offline  bool
	parallel int
	workDir  string
	keep     bool
}

// plannedCase is a case plus the name its expected text is stored under.
type plannedCase struct {
	snapshot.Case
	fixture string
}

func newVerifyCmd(root *rootOptions) *cobra.Command {
	o := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Generate the hello world schema and compare it with a snapshot",
		Long: `Writes a hello world project with a build descriptor in the chosen dialect, runs
the schema generation task and compares the generated SDL with the expected fixture.
Cases come from flags or, with --suite, from a YAML file. Exits 1 when any case fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.OutOrStdout(), root.logger)
		},
	}
	o.bind(cmd)

	fs := cmd.Flags()
	fs.StringVar(&o.suite, "suite", "", "YAML suite file; case flags are ignored when set")
	fs.StringVar(&o.expected, "expected", "", "file holding the expected SDL")
	fs.StringVar(&o.fixture, "fixture", "", "name of the expected fixture (default: picked from --hooks-dependency)")
	fs.StringVar(&o.fixturesURL, "fixtures-url", "", "blob bucket URL holding fixtures, e.g. file:///srv/fixtures")
	fs.BoolVar(&o.update, "update", false, "write the generated SDL back as the expected fixture when it differs")
	fs.StringVar(&o.runner, "runner", runnerGradle, "build runner: gradle|generator")
	fs.BoolVar(&o.offline, "offline", false, "run gradle with --offline")
	fs.IntVar(&o.parallel, "parallel", 0, "cases verified concurrently (default: suite setting or GOMAXPROCS)")
	fs.StringVar(&o.workDir, "workdir", "", "parent directory of the temporary workspaces")
	fs.BoolVar(&o.keep, "keep-workspaces", false, "do not delete workspaces after the run")
	return cmd
}

func (o *verifyOptions) buildRunner(logger logrus.FieldLogger) (snapshot.BuildRunner, error) {
	switch o.runner {
	case runnerGradle:
		return &snapshot.GradleRunner{Offline: o.offline, Logger: logger}, nil
	case runnerGenerator:
		return &snapshot.GeneratorRunner{Logger: logger}, nil
	default:
		return nil, errors.Errorf("unknown runner %q: want %s or %s", o.runner, runnerGradle, runnerGenerator)
	}
}

func (o *verifyOptions) run(ctx context.Context, out io.Writer, logger *logrus.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.expected != "" && o.fixture != "" {
		return errors.New("--expected and --fixture are mutually exclusive")
	}

	runner, err := o.buildRunner(logger)
	if err != nil {
		return err
	}

	var store *snapshot.FixtureStore
	if o.fixturesURL != "" {
		if store, err = snapshot.OpenFixtureStore(ctx, o.fixturesURL); err != nil {
			return err
		}
		defer store.Close()
	}

	cases, parallelism, err := o.plan(ctx, store)
	if err != nil {
		return err
	}
	if o.parallel > 0 {
		parallelism = o.parallel
	}

	update, err := o.updater(store)
	if err != nil {
		return err
	}

	v := snapshot.NewVerifier(runner, logger)
	v.TempDir = o.workDir
	v.KeepWorkspaces = o.keep

	plain := make([]snapshot.Case, len(cases))
	for i, c := range cases {
		plain[i] = c.Case
	}
	results := snapshot.RunSuite(ctx, v, plain, parallelism)

	failed := 0
	for i, r := range results {
		var mismatch *snapshot.MismatchError
		if update != nil && errors.As(r.Err, &mismatch) {
			if err := update(ctx, cases[i].fixture, mismatch.Actual); err != nil {
				return errors.Wrapf(err, "updating fixture %s", cases[i].fixture)
			}
			report(out, r, "UPDATED", color.FgYellow)
			continue
		}
		if !r.Passed() {
			failed++
			report(out, r, "FAIL", color.FgRed)
			continue
		}
		report(out, r, "PASS", color.FgGreen)
	}

	fmt.Fprintf(out, "\n%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return errors.Wrapf(ErrVerificationFailed, "%d of %d cases", failed, len(results))
	}
	return nil
}

// plan returns the cases to verify and the parallelism requested by the suite.
func (o *verifyOptions) plan(ctx context.Context, store *snapshot.FixtureStore) ([]plannedCase, int, error) {
	if o.suite != "" {
		return o.planSuite(ctx, store)
	}

	c, err := o.toCase()
	if err != nil {
		return nil, 0, err
	}
	name := o.fixture
	if name == "" {
		name = snapshot.FixtureNameFor(c.Descriptor)
	}

	switch {
	case o.expected != "":
		b, err := os.ReadFile(o.expected)
		if err != nil {
			return nil, 0, errors.Wrap(err, "reading expected schema")
		}
		c.Expected = string(b)
		name = o.expected
	case store != nil:
		if c.Expected, err = store.Get(ctx, name); err != nil {
			return nil, 0, err
		}
	default:
		if c.Expected, err = snapshot.FixtureByName(name); err != nil {
			return nil, 0, err
		}
	}
	return []plannedCase{{Case: c, fixture: name}}, 1, nil
}

func (o *verifyOptions) planSuite(ctx context.Context, store *snapshot.FixtureStore) ([]plannedCase, int, error) {
	suite, err := snapshot.LoadSuite(o.suite)
	if err != nil {
		return nil, 0, err
	}
	resolve := snapshot.FileFixtures(filepath.Dir(o.suite))
	if store != nil {
		resolve = store.Resolver()
	}
	cases, err := suite.Resolve(ctx, resolve)
	if err != nil {
		return nil, 0, err
	}

	planned := make([]plannedCase, len(cases))
	for i, c := range cases {
		name := suite.Cases[i].Fixture
		if name == "" {
			name = snapshot.FixtureNameFor(c.Descriptor)
			if store != nil {
				if c.Expected, err = store.Get(ctx, name); err != nil {
					return nil, 0, errors.Wrapf(err, "case %s", c.Name)
				}
			}
		}
		planned[i] = plannedCase{Case: c, fixture: name}
	}
	return planned, suite.Parallelism, nil
}

type updateFunc func(ctx context.Context, fixture, sdl string) error

// updater returns nil unless --update is set. Fixtures are written to the
// bucket when one is configured, otherwise to the --expected file.
func (o *verifyOptions) updater(store *snapshot.FixtureStore) (updateFunc, error) {
	if !o.update {
		return nil, nil
	}
	switch {
	case store != nil:
		return func(ctx context.Context, fixture, sdl string) error {
			return store.Put(ctx, fixture, sdl)
		}, nil
	case o.expected != "" && o.suite == "":
		return func(_ context.Context, path, sdl string) error {
			return os.WriteFile(path, []byte(snapshot.Normalize(sdl)+"\n"), 0o644)
		}, nil
	default:
		return nil, errors.New("--update needs --fixtures-url or --expected")
	}
}

func report(out io.Writer, r snapshot.CaseResult, status string, attr color.Attribute) {
	var d time.Duration
	if r.Result != nil {
		d = r.Result.Duration.Round(time.Millisecond)
	}
	color.New(attr, color.Bold).Fprintf(out, "%-7s", status)
	fmt.Fprintf(out, " %s (%s, %s)\n", r.Case.Name, r.Case.Dialect, d)
	if r.Err != nil && status == "FAIL" {
		for _, line := range strings.Split(strings.TrimRight(r.Err.Error(), "\n"), "\n") {
			fmt.Fprintf(out, "        %s\n", line)
		}
	}
}
