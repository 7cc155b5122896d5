// Package users is a federated subgraph owning the User entity. It registers
// itself for GeneratorRunner scans of org.acme.users.
package users

import (
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/snapshot"
)

// Package is the scan root the subgraph lives in.
const Package = "org.acme.users"

func init() {
	snapshot.RegisterPackage(Package, func(sb *schemabuilder.Schema, _ snapshot.TemplateFlags) error {
		return RegisterSchema(sb, NewDirectory())
	})
}

// RegisterSchema registers every users type and root field backed by dir.
func RegisterSchema(sb *schemabuilder.Schema, dir *Directory) error {
	if err := RegisterScalars(); err != nil {
		return err
	}
	RegisterEnums(sb)
	RegisterInputs(sb)
	RegisterObjects(sb)
	RegisterQueries(sb, dir)
	RegisterMutations(sb, dir)
	return nil
}
