package helloworld

import (
	"github.com/google/uuid"

	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/snapshot"
)

// RegisterQuery registers helloWorld(name: String): String! and, with custom
// scalars enabled, randomUUID: UUID!.
func RegisterQuery(sb *schemabuilder.Schema, flags snapshot.TemplateFlags) {
	q := sb.Query()

	q.FieldFunc("helloWorld", func(args struct {
		Name *string
	}) string {
		return Greeting(args.Name)
	})

	if flags.CustomScalarsEnabled {
		q.FieldFunc("randomUUID", func() uuid.UUID {
			return uuid.New()
		})
	}
}

// Greeting is the helloWorld resolver.
func Greeting(name *string) string {
	if name == nil || *name == "" {
		return "Hello, World!"
	}
	return "Hello, " + *name + "!"
}
