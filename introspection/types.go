// Package introspection holds the GraphQL introspection query, the shape of
// its result and the conversions between that result and graphql.Schema.
// Client fetches the result from a running server.
package introspection

// Result is the data of an introspection response.
type Result struct {
	Schema Schema `json:"__schema"`
}

// Schema mirrors __Schema.
type Schema struct {
	QueryType        *TypeName   `json:"queryType"`
	MutationType     *TypeName   `json:"mutationType"`
	SubscriptionType *TypeName   `json:"subscriptionType"`
	Types            []FullType  `json:"types"`
	Directives       []Directive `json:"directives"`
}

type TypeName struct {
	Name string `json:"name"`
}

// FullType mirrors __Type as selected by the FullType fragment.
type FullType struct {
	Kind           string       `json:"kind"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Fields         []Field      `json:"fields"`
	InputFields    []InputValue `json:"inputFields"`
	Interfaces     []TypeRef    `json:"interfaces"`
	EnumValues     []EnumValue  `json:"enumValues"`
	PossibleTypes  []TypeRef    `json:"possibleTypes"`
	SpecifiedByURL *string      `json:"specifiedByURL,omitempty"`
}

type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Args              []InputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason *string      `json:"deprecationReason"`
}

// InputValue mirrors __InputValue. DefaultValue is a GraphQL literal.
type InputValue struct {
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Type              TypeRef `json:"type"`
	DefaultValue      *string `json:"defaultValue"`
	IsDeprecated      bool    `json:"isDeprecated,omitempty"`
	DeprecationReason *string `json:"deprecationReason,omitempty"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

// TypeRef is a possibly wrapped type reference. Name is nil for LIST and
// NON_NULL.
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

type Directive struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Locations    []string     `json:"locations"`
	Args         []InputValue `json:"args"`
	IsRepeatable bool         `json:"isRepeatable"`
}

// Type returns the type called name, or nil.
func (s *Schema) Type(name string) *FullType {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i]
		}
	}
	return nil
}
