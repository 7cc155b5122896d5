package snapshot

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateFlags are the switches recognised by the source templates.
type TemplateFlags struct {
	// CustomScalarsEnabled adds custom scalar wiring (a UUID scalar and a
	// randomUUID query) to the generated sources.
	CustomScalarsEnabled bool `yaml:"customScalarsEnabled,omitempty"`
}

// Source templates and the file each one is rendered to.
const (
	TemplateServerApplication = "ServerApplication"
	TemplateHelloWorldQuery   = "HelloWorldQuery"
)

var sourceSet = []struct{ template, file string }{
	{TemplateServerApplication, "Application.kt"},
	{TemplateHelloWorldQuery, "HelloWorldQuery.kt"},
}

var templates = template.Must(template.New("sdlkit").Funcs(template.FuncMap{
	"quote": scriptQuote,
	"quoteList": func(items []string) string {
		quoted := make([]string, 0, len(items))
		for _, item := range items {
			quoted = append(quoted, scriptQuote(item))
		}
		return strings.Join(quoted, ", ")
	},
	// Replaced per dialect before execution.
	"dependency": func(string) string { return "" },
}).ParseFS(templateFS, "templates/*.tmpl"))

// RenderSource renders one of the source templates for package pkg.
func RenderSource(name, pkg string, flags TemplateFlags) (string, error) {
	t := templates.Lookup(name + ".kt.tmpl")
	if t == nil {
		return "", errors.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	err := t.Execute(&buf, struct {
		Package string
		TemplateFlags
	}{pkg, flags})
	if err != nil {
		return "", errors.Wrapf(err, "rendering template %s", name)
	}
	return buf.String(), nil
}

// renderDescriptor executes a build file template. dependency renders the
// hooks dependency line in the syntax of the dialect.
func renderDescriptor(name string, d Descriptor, dependency func(coordinate string) string) (string, error) {
	t, err := templates.Clone()
	if err != nil {
		return "", errors.Wrap(err, "cloning templates")
	}
	t.Funcs(template.FuncMap{"dependency": dependency})

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, d); err != nil {
		return "", errors.Wrapf(err, "rendering %s", name)
	}
	return buf.String(), nil
}

// WriteSources renders the source set into the workspace, under the
// directory of the first scanned package.
func WriteSources(ws *Workspace, d Descriptor, flags TemplateFlags) error {
	dir := d.SourceDir()
	for _, src := range sourceSet {
		content, err := RenderSource(src.template, d.Packages[0], flags)
		if err != nil {
			return err
		}
		if err := ws.WriteFile(dir+"/"+src.file, content); err != nil {
			return err
		}
	}
	return nil
}

// WriteDescriptor writes the build and settings files of dialect.
func WriteDescriptor(ws *Workspace, dialect Dialect, d Descriptor) error {
	w, err := WriterFor(dialect)
	if err != nil {
		return err
	}
	build, err := w.BuildFile(d)
	if err != nil {
		return err
	}
	if err := ws.WriteFile(dialect.BuildFile(), build); err != nil {
		return err
	}
	return ws.WriteFile(dialect.SettingsFile(), w.SettingsFile(ws.ProjectName()))
}
