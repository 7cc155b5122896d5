package snapshot

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"go.appointy.com/sdlkit/hooks"
)

// Dialect is the syntax a build descriptor is written in.
type Dialect string

const (
	// DialectKotlin is the statically typed Kotlin script dialect (build.gradle.kts).
	DialectKotlin Dialect = "kts"
	// DialectGroovy is the dynamic Groovy dialect (build.gradle).
	DialectGroovy Dialect = "groovy"
)

// Dialects lists the supported dialects.
var Dialects = []Dialect{DialectKotlin, DialectGroovy}

// ParseDialect accepts "kts"/"kotlin" and "groovy".
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kts", "kotlin":
		return DialectKotlin, nil
	case "groovy":
		return DialectGroovy, nil
	default:
		return "", errors.Errorf("unknown build descriptor dialect %q (want kts or groovy)", s)
	}
}

// BuildFile is the descriptor file name for the dialect.
func (d Dialect) BuildFile() string {
	if d == DialectGroovy {
		return "build.gradle"
	}
	return "build.gradle.kts"
}

// SettingsFile is the settings file name for the dialect.
func (d Dialect) SettingsFile() string {
	if d == DialectGroovy {
		return "settings.gradle"
	}
	return "settings.gradle.kts"
}

const (
	DefaultTaskName        = "graphqlGenerateSDL"
	DefaultTaskType        = "com.expediagroup.graphql.plugin.gradle.tasks.GraphQLGenerateSDLTask"
	DefaultDependencyScope = "graphqlSDL"
	DefaultPluginVersion   = "7.0.0"
	DefaultKotlinVersion   = "1.8.22"

	// ArtifactPath is where the generator writes the schema, relative to the workspace.
	ArtifactPath = "build/schema.graphql"
)

// Descriptor is the dialect independent configuration of the schema
// generation task. Each dialect has its own writer that renders it.
type Descriptor struct {
	// TaskName is the task to run, graphqlGenerateSDL by default.
	TaskName string `yaml:"task,omitempty"`
	// TaskType is the fully qualified task class, used by the kts dialect.
	TaskType string `yaml:"taskType,omitempty"`
	// Packages are scanned for schema types. At least one is required.
	Packages []string `yaml:"packages"`
	// HooksDependency is an optional group:artifact:version added to DependencyScope.
	HooksDependency string `yaml:"hooksDependency,omitempty"`
	// DependencyScope is the configuration the hooks dependency is added to.
	DependencyScope string `yaml:"dependencyScope,omitempty"`
	PluginVersion   string `yaml:"pluginVersion,omitempty"`
	KotlinVersion   string `yaml:"kotlinVersion,omitempty"`
}

// WithDefaults fills unset fields.
func (d Descriptor) WithDefaults() Descriptor {
	if d.TaskName == "" {
		d.TaskName = DefaultTaskName
	}
	if d.TaskType == "" {
		d.TaskType = DefaultTaskType
	}
	if d.DependencyScope == "" {
		d.DependencyScope = DefaultDependencyScope
	}
	if d.PluginVersion == "" {
		d.PluginVersion = DefaultPluginVersion
	}
	if d.KotlinVersion == "" {
		d.KotlinVersion = DefaultKotlinVersion
	}
	return d
}

var (
	packageRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Validate reports configuration errors. It expects defaults to be applied.
func (d Descriptor) Validate() error {
	if d.TaskName == "" {
		return errors.New("descriptor: task name is required")
	}
	if !identifierRe.MatchString(d.TaskName) {
		return errors.Errorf("descriptor: invalid task name %q", d.TaskName)
	}
	if !identifierRe.MatchString(d.DependencyScope) {
		return errors.Errorf("descriptor: invalid dependency scope %q", d.DependencyScope)
	}
	if len(d.Packages) == 0 {
		return errors.New("descriptor: at least one package to scan is required")
	}
	for _, p := range d.Packages {
		if !packageRe.MatchString(p) {
			return errors.Errorf("descriptor: invalid package name %q", p)
		}
	}
	if d.HooksDependency != "" {
		c, err := hooks.ParseCoordinate(d.HooksDependency)
		if err != nil {
			return errors.Wrap(err, "descriptor")
		}
		if c.Version == "" {
			return errors.Errorf("descriptor: hooks dependency %q has no version", d.HooksDependency)
		}
	}
	return nil
}

// SourceDir is the directory the source set is written to, derived from the
// first package.
func (d Descriptor) SourceDir() string {
	return "src/main/kotlin/" + strings.ReplaceAll(d.Packages[0], ".", "/")
}

// DescriptorWriter renders a Descriptor in one dialect.
type DescriptorWriter interface {
	Dialect() Dialect
	BuildFile(d Descriptor) (string, error)
	SettingsFile(projectName string) string
}

// WriterFor returns the writer of dialect.
func WriterFor(dialect Dialect) (DescriptorWriter, error) {
	switch dialect {
	case DialectKotlin:
		return ktsWriter{}, nil
	case DialectGroovy:
		return groovyWriter{}, nil
	default:
		return nil, errors.Errorf("unknown build descriptor dialect %q", dialect)
	}
}

type ktsWriter struct{}

func (ktsWriter) Dialect() Dialect { return DialectKotlin }

func (ktsWriter) BuildFile(d Descriptor) (string, error) {
	return renderDescriptor("build.gradle.kts.tmpl", d, func(coordinate string) string {
		return d.DependencyScope + "(" + scriptQuote(coordinate) + ")"
	})
}

func (ktsWriter) SettingsFile(projectName string) string {
	return "rootProject.name = " + scriptQuote(projectName) + "\n"
}

type groovyWriter struct{}

func (groovyWriter) Dialect() Dialect { return DialectGroovy }

func (groovyWriter) BuildFile(d Descriptor) (string, error) {
	return renderDescriptor("build.gradle.tmpl", d, func(coordinate string) string {
		return d.DependencyScope + " " + scriptQuote(coordinate)
	})
}

func (groovyWriter) SettingsFile(projectName string) string {
	return "rootProject.name = " + scriptQuote(projectName) + "\n"
}

var scriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

// scriptQuote renders s as a double quoted string literal valid in both
// Kotlin and Groovy scripts.
func scriptQuote(s string) string {
	return `"` + scriptEscaper.Replace(s) + `"`
}
