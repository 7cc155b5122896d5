// Package helloworld is the Go source set mirrored by the HelloWorldQuery and
// ServerApplication templates. It registers itself for the com.example package
// scan of snapshot.GeneratorRunner.
package helloworld

import (
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/snapshot"
)

// Package is the scan root the source set lives in.
const Package = "com.example"

func init() {
	snapshot.RegisterPackage(Package, RegisterSchema)
}

// RegisterSchema registers scalars first, then the query fields.
func RegisterSchema(sb *schemabuilder.Schema, flags snapshot.TemplateFlags) error {
	if flags.CustomScalarsEnabled {
		if err := RegisterScalars(); err != nil {
			return err
		}
	}
	RegisterQuery(sb, flags)
	return nil
}
