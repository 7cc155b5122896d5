package graphql

// DirectiveLocation is a place in a document or type system where a directive
// may be applied.
type DirectiveLocation string

const (
	LocationQuery                DirectiveLocation = "QUERY"
	LocationMutation             DirectiveLocation = "MUTATION"
	LocationSubscription         DirectiveLocation = "SUBSCRIPTION"
	LocationField                DirectiveLocation = "FIELD"
	LocationFragmentDefinition   DirectiveLocation = "FRAGMENT_DEFINITION"
	LocationFragmentSpread       DirectiveLocation = "FRAGMENT_SPREAD"
	LocationInlineFragment       DirectiveLocation = "INLINE_FRAGMENT"
	LocationVariableDefinition   DirectiveLocation = "VARIABLE_DEFINITION"
	LocationSchema               DirectiveLocation = "SCHEMA"
	LocationScalar               DirectiveLocation = "SCALAR"
	LocationObject               DirectiveLocation = "OBJECT"
	LocationFieldDefinition      DirectiveLocation = "FIELD_DEFINITION"
	LocationArgumentDefinition   DirectiveLocation = "ARGUMENT_DEFINITION"
	LocationInterface            DirectiveLocation = "INTERFACE"
	LocationUnion                DirectiveLocation = "UNION"
	LocationEnum                 DirectiveLocation = "ENUM"
	LocationEnumValue            DirectiveLocation = "ENUM_VALUE"
	LocationInputObject          DirectiveLocation = "INPUT_OBJECT"
	LocationInputFieldDefinition DirectiveLocation = "INPUT_FIELD_DEFINITION"
)

// TypeKind is the __TypeKind of a type as reported by introspection.
type TypeKind string

const (
	KindScalar      TypeKind = "SCALAR"
	KindObject      TypeKind = "OBJECT"
	KindInterface   TypeKind = "INTERFACE"
	KindUnion       TypeKind = "UNION"
	KindEnum        TypeKind = "ENUM"
	KindInputObject TypeKind = "INPUT_OBJECT"
	KindList        TypeKind = "LIST"
	KindNonNull     TypeKind = "NON_NULL"
)

// KindOf returns the introspection kind of t.
func KindOf(t Type) TypeKind {
	switch t.(type) {
	case *Object:
		return KindObject
	case *Union:
		return KindUnion
	case *Interface:
		return KindInterface
	case *Scalar:
		return KindScalar
	case *Enum:
		return KindEnum
	case *List:
		return KindList
	case *InputObject:
		return KindInputObject
	case *NonNull:
		return KindNonNull
	default:
		return ""
	}
}

// Built-in scalars. They are part of every schema and never printed.
var (
	String  = &Scalar{Name: "String", Description: "Built-in String"}
	Int     = &Scalar{Name: "Int", Description: "Built-in Int"}
	Float   = &Scalar{Name: "Float", Description: "Built-in Float"}
	Boolean = &Scalar{Name: "Boolean", Description: "Built-in Boolean"}
	ID      = &Scalar{Name: "ID", Description: "Built-in ID"}
)

// IsBuiltInScalar reports whether name is one of the five specified scalars.
func IsBuiltInScalar(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

// DefaultDeprecationReason is the reason used when @deprecated has no argument.
const DefaultDeprecationReason = "No longer supported"

func literal(s string) *string {
	return &s
}

// DeprecatedDirective is the built-in @deprecated.
var DeprecatedDirective = &DirectiveDefinition{
	Name:        "deprecated",
	Description: "Marks the field, argument, input field or enum value as deprecated",
	Args: []*InputValue{
		{
			Name:         "reason",
			Description:  "The reason for the deprecation",
			Type:         String,
			DefaultValue: literal(`"` + DefaultDeprecationReason + `"`),
		},
	},
	Locations: []DirectiveLocation{
		LocationFieldDefinition,
		LocationArgumentDefinition,
		LocationEnumValue,
		LocationInputFieldDefinition,
	},
}

// IncludeDirective is the built-in @include.
var IncludeDirective = &DirectiveDefinition{
	Name:        "include",
	Description: "Directs the executor to include this field or fragment only when the `if` argument is true",
	Args: []*InputValue{
		{
			Name:        "if",
			Description: "Included when true.",
			Type:        &NonNull{Type: Boolean},
		},
	},
	Locations: []DirectiveLocation{
		LocationField,
		LocationFragmentSpread,
		LocationInlineFragment,
	},
}

// SkipDirective is the built-in @skip.
var SkipDirective = &DirectiveDefinition{
	Name:        "skip",
	Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
	Args: []*InputValue{
		{
			Name:        "if",
			Description: "Skipped when true.",
			Type:        &NonNull{Type: Boolean},
		},
	},
	Locations: []DirectiveLocation{
		LocationField,
		LocationFragmentSpread,
		LocationInlineFragment,
	},
}

// SpecifiedByDirective is the built-in @specifiedBy.
var SpecifiedByDirective = &DirectiveDefinition{
	Name:        "specifiedBy",
	Description: "Exposes a URL that specifies the behaviour of this scalar.",
	Args: []*InputValue{
		{
			Name:        "url",
			Description: "The URL that specifies the behaviour of this scalar.",
			Type:        &NonNull{Type: String},
		},
	},
	Locations: []DirectiveLocation{
		LocationScalar,
	},
}

// BuiltInDirectives returns a fresh slice with the directives every schema declares.
func BuiltInDirectives() []*DirectiveDefinition {
	return []*DirectiveDefinition{
		DeprecatedDirective,
		IncludeDirective,
		SkipDirective,
		SpecifiedByDirective,
	}
}
