package snapshot

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultSchema is the SDL generated for the hello world source set without a
// hooks provider.
const DefaultSchema = `schema {
  query: Query
}

"Marks the field, argument, input field or enum value as deprecated"
directive @deprecated(
    "The reason for the deprecation"
    reason: String = "No longer supported"
  ) on FIELD_DEFINITION | ARGUMENT_DEFINITION | ENUM_VALUE | INPUT_FIELD_DEFINITION

"Directs the executor to include this field or fragment only when the ` + "`if`" + ` argument is true"
directive @include(
    "Included when true."
    if: Boolean!
  ) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT

"Directs the executor to skip this field or fragment when the ` + "`if`" + ` argument is true."
directive @skip(
    "Skipped when true."
    if: Boolean!
  ) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT

"Exposes a URL that specifies the behaviour of this scalar."
directive @specifiedBy(
    "The URL that specifies the behaviour of this scalar."
    url: String!
  ) on SCALAR

type Query {
  helloWorld(name: String): String!
}`

// FederatedSchema is the SDL generated for the hello world source set with the
// federated hooks provider on the generator classpath.
const FederatedSchema = `schema @link(import : ["@composeDirective", "@extends", "@external", "@inaccessible", "@key", "@override", "@provides", "@requires", "@shareable", "@tag", "FieldSet"], url : "https://specs.apollo.dev/federation/v2.1"){
  query: Query
}

"Marks underlying custom directive to be included in the Supergraph schema"
directive @composeDirective(name: String!) repeatable on SCHEMA

"Marks the field, argument, input field or enum value as deprecated"
directive @deprecated(
    "The reason for the deprecation"
    reason: String = "No longer supported"
  ) on FIELD_DEFINITION | ARGUMENT_DEFINITION | ENUM_VALUE | INPUT_FIELD_DEFINITION

"Marks target object as extending part of the federated schema"
directive @extends on OBJECT | INTERFACE

"Marks target field as external meaning it will be resolved by federated schema"
directive @external on FIELD_DEFINITION

"Marks location within schema as inaccessible from the GraphQL Gateway"
directive @inaccessible on SCALAR | OBJECT | FIELD_DEFINITION | ARGUMENT_DEFINITION | INTERFACE | UNION | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION

"Directs the executor to include this field or fragment only when the ` + "`if`" + ` argument is true"
directive @include(
    "Included when true."
    if: Boolean!
  ) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT

"Space separated list of primary keys needed to access federated object"
directive @key(fields: FieldSet!) repeatable on OBJECT | INTERFACE

"Links definitions within the document to external schemas."
directive @link(import: [String], url: String!) repeatable on SCHEMA

"Overrides fields resolution logic from other subgraph. Used for migrating fields from one subgraph to another."
directive @override(from: String!) on FIELD_DEFINITION

"Specifies the base type field set that will be selectable by the gateway"
directive @provides(fields: FieldSet!) on FIELD_DEFINITION

"Specifies required input field set from the base type for a resolver"
directive @requires(fields: FieldSet!) on FIELD_DEFINITION

"Indicates that given object and/or field can be resolved by multiple subgraphs"
directive @shareable on OBJECT | FIELD_DEFINITION

"Directs the executor to skip this field or fragment when the ` + "`if`" + ` argument is true."
directive @skip(
    "Skipped when true."
    if: Boolean!
  ) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT

"Exposes a URL that specifies the behaviour of this scalar."
directive @specifiedBy(
    "The URL that specifies the behaviour of this scalar."
    url: String!
  ) on SCALAR

"Allows users to annotate fields and types with additional metadata information"
directive @tag(name: String!) repeatable on SCALAR | OBJECT | FIELD_DEFINITION | ARGUMENT_DEFINITION | INTERFACE | UNION | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION

type Query {
  _service: _Service!
  helloWorld(name: String): String!
}

type _Service {
  sdl: String!
}

"Federation type representing set of fields"
scalar FieldSet`

// Names of the built-in fixtures.
const (
	FixtureDefault   = "default"
	FixtureFederated = "federated"
)

// FixtureFor returns the expected schema for d: the federated variant when a
// hooks dependency is declared, the default one otherwise.
func FixtureFor(d Descriptor) string {
	if d.HooksDependency != "" {
		return FederatedSchema
	}
	return DefaultSchema
}

// FixtureNameFor returns the name of the fixture FixtureFor picks.
func FixtureNameFor(d Descriptor) string {
	if d.HooksDependency != "" {
		return FixtureFederated
	}
	return FixtureDefault
}

// FixtureByName returns a built-in fixture.
func FixtureByName(name string) (string, error) {
	switch strings.ToLower(name) {
	case FixtureDefault:
		return DefaultSchema, nil
	case FixtureFederated:
		return FederatedSchema, nil
	default:
		return "", errors.Errorf("unknown fixture %q", name)
	}
}

// Normalize prepares schema text for comparison by removing leading and
// trailing whitespace. Interior whitespace and line endings are kept, so a
// generator that changes them still fails the comparison.
func Normalize(sdl string) string {
	return strings.TrimSpace(sdl)
}
