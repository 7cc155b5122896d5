package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"go.appointy.com/sdlkit"
	"go.appointy.com/sdlkit/example/helloworld"
	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/snapshot"
)

const federated = "com.expediagroup:graphql-kotlin-federated-hooks-provider:7.0.0"

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVerifyScenarios(t *testing.T) {
	for _, dialect := range []string{"kts", "groovy"} {
		for _, hooks := range []string{"", federated} {
			args := []string{"verify", "--runner", "generator", "--dialect", dialect, "--workdir", t.TempDir()}
			if hooks != "" {
				args = append(args, "--hooks-dependency", hooks)
			}
			out, err := execute(t, args...)
			require.NoError(t, err, out)
			require.Contains(t, out, "PASS")
			require.Contains(t, out, "1 passed, 0 failed")
		}
	}
}

func TestVerifyMismatchExitCode(t *testing.T) {
	expected := filepath.Join(t.TempDir(), "expected.graphql")
	require.NoError(t, os.WriteFile(expected, []byte("type Query {\n  nothing: Int\n}\n"), 0o644))

	out, err := execute(t, "verify", "--runner", "generator", "--expected", expected, "--workdir", t.TempDir())
	require.ErrorIs(t, err, ErrVerificationFailed)
	require.Equal(t, ExitFailed, ExitCode(err))
	require.Contains(t, out, "FAIL")
	require.Contains(t, out, "+  helloWorld(name: String): String!")
	require.Contains(t, out, "0 passed, 1 failed")
}

func TestVerifyUpdateExpectedFile(t *testing.T) {
	expected := filepath.Join(t.TempDir(), "expected.graphql")
	require.NoError(t, os.WriteFile(expected, []byte(snapshot.DefaultSchema), 0o644))

	args := []string{"verify", "--runner", "generator", "--custom-scalars", "--expected", expected, "--workdir", t.TempDir()}
	out, err := execute(t, append(args, "--update")...)
	require.NoError(t, err, out)
	require.Contains(t, out, "UPDATED")

	b, err := os.ReadFile(expected)
	require.NoError(t, err)
	require.Contains(t, string(b), "randomUUID: UUID!")

	out, err = execute(t, args...)
	require.NoError(t, err, out)
	require.Contains(t, out, "PASS")
}

func TestVerifyUpdateFixtureBucket(t *testing.T) {
	bucket := "file://" + filepath.ToSlash(t.TempDir())
	args := []string{"verify", "--runner", "generator", "--custom-scalars", "--fixtures-url", bucket, "--workdir", t.TempDir()}

	// The bucket is empty, so the built-in default fixture is used and drifts.
	_, err := execute(t, args...)
	require.ErrorIs(t, err, ErrVerificationFailed)

	out, err := execute(t, append(args, "--update")...)
	require.NoError(t, err, out)

	out, err = execute(t, args...)
	require.NoError(t, err, out)

	out, err = execute(t, "fixtures", "list", "--fixtures-url", bucket)
	require.NoError(t, err)
	require.Equal(t, "default\n", out)
}

func TestVerifySuite(t *testing.T) {
	dir := t.TempDir()
	suite := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(suite, []byte(`parallelism: 2
defaults:
  packages: [com.example]
cases:
  - name: kts-default
    dialect: kts
  - name: groovy-federated
    dialect: groovy
    hooksDependency: `+federated+`
  - name: groovy-drift
    dialect: groovy
    customScalarsEnabled: true
`), 0o644))

	out, err := execute(t, "verify", "--runner", "generator", "--suite", suite, "--workdir", t.TempDir())
	require.ErrorIs(t, err, ErrVerificationFailed)
	require.Contains(t, out, "kts-default (kts")
	require.Contains(t, out, "groovy-drift (groovy")
	require.Contains(t, out, "2 passed, 1 failed")
}

func TestVerifyUsageErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"unknown runner":  {"verify", "--runner", "maven"},
		"unknown dialect": {"verify", "--runner", "generator", "--dialect", "xml"},
		"update nowhere":  {"verify", "--runner", "generator", "--update"},
		"both expected":   {"verify", "--expected", "a", "--fixture", "default"},
		"unknown fixture": {"verify", "--runner", "generator", "--fixture", "nightly"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			require.Error(t, err)
			require.Equal(t, ExitError, ExitCode(err))
		})
	}
}

func TestRender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	out, err := execute(t, "render", "--dir", dir, "--dialect", "groovy", "--hooks-dependency", federated)
	require.NoError(t, err)

	for _, file := range []string{
		"build.gradle",
		"settings.gradle",
		"src/main/kotlin/com/example/Application.kt",
		"src/main/kotlin/com/example/HelloWorldQuery.kt",
	} {
		require.Contains(t, out, file+"\n")
		require.FileExists(t, filepath.Join(dir, file))
	}
	require.Contains(t, out, "run: gradle graphqlGenerateSDL --console=plain")

	b, err := os.ReadFile(filepath.Join(dir, "build.gradle"))
	require.NoError(t, err)
	require.Contains(t, string(b), `graphqlSDL "`+federated+`"`)
}

func TestIntrospectSchema(t *testing.T) {
	sb := schemabuilder.NewSchema()
	require.NoError(t, helloworld.RegisterSchema(sb, snapshot.TemplateFlags{}))
	server := httptest.NewServer(sdlkit.HTTPHandler(sb.MustBuild()))
	defer server.Close()

	out, err := execute(t, "introspect-schema", "--endpoint", server.URL, "--header", "X-Trace=1", "--read-timeout", "2s")
	require.NoError(t, err)
	require.Equal(t, snapshot.DefaultSchema, strings.TrimSpace(out))

	path := filepath.Join(t.TempDir(), "schema.graphql")
	_, err = execute(t, "introspect-schema", "--endpoint", server.URL, "--output", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, snapshot.DefaultSchema+"\n", string(b))

	_, err = execute(t, "introspect-schema")
	require.Error(t, err)
	_, err = execute(t, "introspect-schema", "--endpoint", server.URL, "--header", "broken")
	require.Error(t, err)
}

func TestIntrospectFederatedSchema(t *testing.T) {
	sb := schemabuilder.NewSchema()
	require.NoError(t, helloworld.RegisterSchema(sb, snapshot.TemplateFlags{}))
	server := httptest.NewServer(sdlkit.HTTPHandler(sb.MustBuild(schemabuilder.WithHooks(federation.NewHooks()))))
	defer server.Close()

	out, err := execute(t, "introspect-schema", "--endpoint", server.URL)
	require.NoError(t, err)

	// The schema @link is an applied directive, which introspection does not carry.
	_, rest, _ := strings.Cut(snapshot.FederatedSchema, "\n")
	require.Equal(t, "schema {\n"+rest, strings.TrimSpace(out))
	require.Contains(t, out, "scalar FieldSet")
}

func TestFixturesCommands(t *testing.T) {
	bucket := "file://" + filepath.ToSlash(t.TempDir())

	_, err := execute(t, "fixtures", "seed", "--fixtures-url", bucket)
	require.NoError(t, err)

	out, err := execute(t, "fixtures", "list", "--fixtures-url", bucket)
	require.NoError(t, err)
	require.Equal(t, "default\nfederated\n", out)

	out, err = execute(t, "fixtures", "show", "federated", "--fixtures-url", bucket)
	require.NoError(t, err)
	require.Equal(t, snapshot.FederatedSchema+"\n", out)

	_, err = execute(t, "fixtures", "list")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "sdlkit test ("), out)
	require.Contains(t, out, "hooks provider: com.expediagroup:graphql-kotlin-federated-hooks-provider")
}

func TestParseHeaders(t *testing.T) {
	h, err := parseHeaders([]string{"Authorization=Bearer a=b", " X-Id =7"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Authorization": "Bearer a=b", "X-Id": "7"}, h)
}
