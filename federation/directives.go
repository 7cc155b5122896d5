package federation

import (
	"go.appointy.com/sdlkit/graphql"
)

// FieldSet is the scalar used by @key, @requires and @provides selections.
var FieldSet = &graphql.Scalar{
	Name:        "FieldSet",
	Description: "Federation type representing set of fields",
}

// Any is the representation scalar accepted by _entities.
var Any = &graphql.Scalar{Name: "_Any"}

var fieldSetArg = []*graphql.InputValue{
	{Name: "fields", Type: &graphql.NonNull{Type: FieldSet}},
}

var composeDirective = &graphql.DirectiveDefinition{
	Name:        "composeDirective",
	Description: "Marks underlying custom directive to be included in the Supergraph schema",
	Args: []*graphql.InputValue{
		{Name: "name", Type: &graphql.NonNull{Type: graphql.String}},
	},
	Locations:  []graphql.DirectiveLocation{graphql.LocationSchema},
	Repeatable: true,
}

var extendsDirective = &graphql.DirectiveDefinition{
	Name:        "extends",
	Description: "Marks target object as extending part of the federated schema",
	Locations: []graphql.DirectiveLocation{
		graphql.LocationObject,
		graphql.LocationInterface,
	},
}

var externalDirective = &graphql.DirectiveDefinition{
	Name:        "external",
	Description: "Marks target field as external meaning it will be resolved by federated schema",
	Locations:   []graphql.DirectiveLocation{graphql.LocationFieldDefinition},
}

// Locations where @inaccessible and @tag may appear.
var everyTypeSystemLocation = []graphql.DirectiveLocation{
	graphql.LocationScalar,
	graphql.LocationObject,
	graphql.LocationFieldDefinition,
	graphql.LocationArgumentDefinition,
	graphql.LocationInterface,
	graphql.LocationUnion,
	graphql.LocationEnum,
	graphql.LocationEnumValue,
	graphql.LocationInputObject,
	graphql.LocationInputFieldDefinition,
}

var inaccessibleDirective = &graphql.DirectiveDefinition{
	Name:        "inaccessible",
	Description: "Marks location within schema as inaccessible from the GraphQL Gateway",
	Locations:   everyTypeSystemLocation,
}

var keyDirective = &graphql.DirectiveDefinition{
	Name:        "key",
	Description: "Space separated list of primary keys needed to access federated object",
	Args:        fieldSetArg,
	Locations: []graphql.DirectiveLocation{
		graphql.LocationObject,
		graphql.LocationInterface,
	},
	Repeatable: true,
}

var linkDirective = &graphql.DirectiveDefinition{
	Name:        "link",
	Description: "Links definitions within the document to external schemas.",
	Args: []*graphql.InputValue{
		{Name: "import", Type: &graphql.List{Type: graphql.String}},
		{Name: "url", Type: &graphql.NonNull{Type: graphql.String}},
	},
	Locations:  []graphql.DirectiveLocation{graphql.LocationSchema},
	Repeatable: true,
}

var overrideDirective = &graphql.DirectiveDefinition{
	Name:        "override",
	Description: "Overrides fields resolution logic from other subgraph. Used for migrating fields from one subgraph to another.",
	Args: []*graphql.InputValue{
		{Name: "from", Type: &graphql.NonNull{Type: graphql.String}},
	},
	Locations: []graphql.DirectiveLocation{graphql.LocationFieldDefinition},
}

var providesDirective = &graphql.DirectiveDefinition{
	Name:        "provides",
	Description: "Specifies the base type field set that will be selectable by the gateway",
	Args:        fieldSetArg,
	Locations:   []graphql.DirectiveLocation{graphql.LocationFieldDefinition},
}

var requiresDirective = &graphql.DirectiveDefinition{
	Name:        "requires",
	Description: "Specifies required input field set from the base type for a resolver",
	Args:        fieldSetArg,
	Locations:   []graphql.DirectiveLocation{graphql.LocationFieldDefinition},
}

var shareableDirective = &graphql.DirectiveDefinition{
	Name:        "shareable",
	Description: "Indicates that given object and/or field can be resolved by multiple subgraphs",
	Locations: []graphql.DirectiveLocation{
		graphql.LocationObject,
		graphql.LocationFieldDefinition,
	},
}

var tagDirective = &graphql.DirectiveDefinition{
	Name:        "tag",
	Description: "Allows users to annotate fields and types with additional metadata information",
	Args: []*graphql.InputValue{
		{Name: "name", Type: &graphql.NonNull{Type: graphql.String}},
	},
	Locations:  everyTypeSystemLocation,
	Repeatable: true,
}

// Directives returns the Federation v2.1 directive definitions.
func Directives() []*graphql.DirectiveDefinition {
	return []*graphql.DirectiveDefinition{
		composeDirective,
		extendsDirective,
		externalDirective,
		inaccessibleDirective,
		keyDirective,
		linkDirective,
		overrideDirective,
		providesDirective,
		requiresDirective,
		shareableDirective,
		tagDirective,
	}
}

// Key returns an applied @key(fields: fields) directive.
func Key(fields string) *graphql.Directive {
	return &graphql.Directive{
		Name: keyDirective.Name,
		Args: []*graphql.DirectiveArg{{Name: "fields", Value: fields}},
	}
}

// Shareable returns an applied @shareable directive.
func Shareable() *graphql.Directive {
	return &graphql.Directive{Name: shareableDirective.Name}
}

// Extends returns an applied @extends directive.
func Extends() *graphql.Directive {
	return &graphql.Directive{Name: extendsDirective.Name}
}

// External returns an applied @external directive.
func External() *graphql.Directive {
	return &graphql.Directive{Name: externalDirective.Name}
}

// Tag returns an applied @tag(name: name) directive.
func Tag(name string) *graphql.Directive {
	return &graphql.Directive{
		Name: tagDirective.Name,
		Args: []*graphql.DirectiveArg{{Name: "name", Value: name}},
	}
}
