// Package federation adds Apollo Federation v2.1 support to generated schemas.
//
// Importing the package registers its hooks provider under the coordinate
// of the federated hooks provider artifact, so a build descriptor that lists
// that dependency in its generator scope produces a federated schema.
package federation

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"go.appointy.com/sdlkit/graphql"
	"go.appointy.com/sdlkit/hooks"
	"go.appointy.com/sdlkit/schemabuilder"
)

const (
	// ProviderCoordinate is the group:artifact the provider is registered under.
	ProviderCoordinate = "com.expediagroup:graphql-kotlin-federated-hooks-provider"

	// LinkURL is the federation spec the schema links to.
	LinkURL = "https://specs.apollo.dev/federation/v2.1"
)

// DefaultImports are the definitions imported through @link.
var DefaultImports = []string{
	"@composeDirective",
	"@extends",
	"@external",
	"@inaccessible",
	"@key",
	"@override",
	"@provides",
	"@requires",
	"@shareable",
	"@tag",
	"FieldSet",
}

func init() {
	hooks.Register(ProviderCoordinate, hooks.ProviderFunc(func() schemabuilder.Hooks {
		return NewHooks()
	}))
}

// Hooks decorates a schema with the federation scaffolding: directive
// definitions, the schema @link, the _Service type and Query._service. Objects
// carrying @key additionally get _Any, _Entity and Query._entities.
type Hooks struct {
	LinkURL string
	Imports []string
}

// NewHooks returns hooks that link to federation v2.1 with the default imports.
func NewHooks() *Hooks {
	imports := make([]string, len(DefaultImports))
	copy(imports, DefaultImports)
	return &Hooks{LinkURL: LinkURL, Imports: imports}
}

// WillBuildSchema implements schemabuilder.Hooks.
func (h *Hooks) WillBuildSchema(schema *graphql.Schema) error {
	if schema.Query == nil {
		return errors.New("federation: schema has no Query type")
	}

	for _, d := range Directives() {
		if existing := schema.Directive(d.Name); existing != nil && existing != d {
			return errors.Errorf("federation: directive @%s is already declared", d.Name)
		}
		schema.AddDirective(d)
	}

	url := h.LinkURL
	if url == "" {
		url = LinkURL
	}
	schema.SchemaDirectives = append(schema.SchemaDirectives, &graphql.Directive{
		Name: linkDirective.Name,
		Args: []*graphql.DirectiveArg{
			{Name: "import", Value: h.Imports},
			{Name: "url", Value: url},
		},
	})

	entities, err := entityTypes(schema)
	if err != nil {
		return err
	}
	if len(entities) > 0 {
		addEntities(schema, entities)
	}

	if _, ok := schema.Query.Fields["_service"]; ok {
		return errors.New("federation: Query._service is reserved")
	}
	schema.Query.AddField(&graphql.Field{
		Name: "_service",
		Type: &graphql.NonNull{Type: serviceType()},
	})
	return nil
}

func serviceType() *graphql.Object {
	service := &graphql.Object{Name: "_Service"}
	service.AddField(&graphql.Field{
		Name: "sdl",
		Type: &graphql.NonNull{Type: graphql.String},
	})
	return service
}

// entityTypes returns the objects annotated with @key, after checking that
// every key names fields of the object.
func entityTypes(schema *graphql.Schema) ([]*graphql.Object, error) {
	var entities []*graphql.Object
	types := graphql.CollectTypes(schema)
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		object, ok := types[name].(*graphql.Object)
		if !ok || !object.HasDirective(keyDirective.Name) {
			continue
		}
		for _, d := range object.Directives {
			if d.Name != keyDirective.Name {
				continue
			}
			if err := validateKey(object, d); err != nil {
				return nil, err
			}
		}
		entities = append(entities, object)
	}
	return entities, nil
}

func validateKey(object *graphql.Object, d *graphql.Directive) error {
	var fields string
	for _, arg := range d.Args {
		if arg.Name == "fields" {
			fields, _ = arg.Value.(string)
		}
	}
	selections := topLevelSelections(fields)
	if len(selections) == 0 {
		return errors.Errorf("federation: @key on %s has an empty field set", object.Name)
	}
	for _, name := range selections {
		if _, ok := object.Fields[name]; !ok {
			return errors.Errorf("federation: @key(fields: %q) on %s references unknown field %s", fields, object.Name, name)
		}
	}
	return nil
}

// topLevelSelections returns the field names of a selection set such as
// "id organization { id }", skipping nested selections.
func topLevelSelections(fields string) []string {
	var names []string
	depth := 0
	for _, token := range strings.Fields(strings.NewReplacer("{", " { ", "}", " } ").Replace(fields)) {
		switch token {
		case "{":
			depth++
		case "}":
			depth--
		default:
			if depth == 0 {
				names = append(names, token)
			}
		}
	}
	return names
}

func addEntities(schema *graphql.Schema, entities []*graphql.Object) {
	entity := &graphql.Union{Name: "_Entity", Types: make(map[string]*graphql.Object)}
	for _, object := range entities {
		entity.Types[object.Name] = object
	}

	schema.Query.AddField(&graphql.Field{
		Name: "_entities",
		Type: &graphql.NonNull{Type: &graphql.List{Type: entity}},
		Args: []*graphql.InputValue{
			{
				Name: "representations",
				Type: &graphql.NonNull{Type: &graphql.List{Type: &graphql.NonNull{Type: Any}}},
			},
		},
	})
}
