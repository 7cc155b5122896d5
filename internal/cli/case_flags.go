package cli

import (
	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/example/helloworld"
	"go.appointy.com/sdlkit/snapshot"
)

// caseFlags describe a single case on the command line.
type caseFlags struct {
	name            string
	dialect         string
	packages        []string
	hooksDependency string
	task            string
	taskType        string
	dependencyScope string
	pluginVersion   string
	kotlinVersion   string
	customScalars   bool
}

func (f *caseFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "hello-world", "case name, used for the workspace directory")
	fs.StringVar(&f.dialect, "dialect", string(snapshot.DialectKotlin), "build script dialect: kts|groovy")
	fs.StringSliceVar(&f.packages, "package", []string{helloworld.Package}, "packages scanned by the generator")
	fs.StringVar(&f.hooksDependency, "hooks-dependency", "", "group:artifact:version of the hooks provider on the generator classpath")
	fs.StringVar(&f.task, "task", snapshot.DefaultTaskName, "generator task name")
	fs.StringVar(&f.taskType, "task-type", snapshot.DefaultTaskType, "generator task class")
	fs.StringVar(&f.dependencyScope, "dependency-scope", snapshot.DefaultDependencyScope, "configuration the hooks dependency is added to")
	fs.StringVar(&f.pluginVersion, "plugin-version", snapshot.DefaultPluginVersion, "generator plugin version")
	fs.StringVar(&f.kotlinVersion, "kotlin-version", snapshot.DefaultKotlinVersion, "Kotlin plugin version")
	fs.BoolVar(&f.customScalars, "custom-scalars", false, "add the UUID scalar to the source set")
}

func (f *caseFlags) toCase() (snapshot.Case, error) {
	dialect, err := snapshot.ParseDialect(f.dialect)
	if err != nil {
		return snapshot.Case{}, err
	}
	return snapshot.Case{
		Name:    f.name,
		Dialect: dialect,
		Descriptor: snapshot.Descriptor{
			TaskName:        f.task,
			TaskType:        f.taskType,
			Packages:        f.packages,
			HooksDependency: f.hooksDependency,
			DependencyScope: f.dependencyScope,
			PluginVersion:   f.pluginVersion,
			KotlinVersion:   f.kotlinVersion,
		},
		Flags: snapshot.TemplateFlags{CustomScalarsEnabled: f.customScalars},
	}, nil
}
