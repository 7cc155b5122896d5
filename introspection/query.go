package introspection

import (
	"fmt"
)

// Options selects the optional parts of the introspection query. Older
// servers reject fields they do not know, so everything is off by default.
type Options struct {
	// DirectiveIsRepeatable asks for __Directive.isRepeatable.
	DirectiveIsRepeatable bool
	// SpecifiedByURL asks for __Type.specifiedByURL.
	SpecifiedByURL bool
	// InputValueDeprecation asks for deprecated arguments and input fields.
	InputValueDeprecation bool
}

// FullOptions enables every optional field.
var FullOptions = Options{
	DirectiveIsRepeatable: true,
	SpecifiedByURL:        true,
	InputValueDeprecation: true,
}

// IntrospectionQuery is the query built with the zero Options.
var IntrospectionQuery = Query(Options{})

// Adapted from https://github.com/graphql/graphql-js/blob/main/src/utilities/getIntrospectionQuery.ts
const queryTemplate = `
query IntrospectionQuery {
	__schema {
		queryType { name }
		mutationType { name }
		subscriptionType { name }
		types {
			...FullType
		}
		directives {
			name
			description
			locations%s
			args%s {
				...InputValue
			}
		}
	}
}
fragment FullType on __Type {
	kind
	name
	description%s
	fields(includeDeprecated: true) {
		name
		description
		args%s {
			...InputValue
		}
		type {
			...TypeRef
		}
		isDeprecated
		deprecationReason
	}
	inputFields%s {
		...InputValue
	}
	interfaces {
		...TypeRef
	}
	enumValues(includeDeprecated: true) {
		name
		description
		isDeprecated
		deprecationReason
	}
	possibleTypes {
		...TypeRef
	}
}
fragment InputValue on __InputValue {
	name
	description
	type { ...TypeRef }
	defaultValue%s
}
fragment TypeRef on __Type {
	kind
	name
	ofType {
		kind
		name
		ofType {
			kind
			name
			ofType {
				kind
				name
				ofType {
					kind
					name
					ofType {
						kind
						name
						ofType {
							kind
							name
							ofType {
								kind
								name
							}
						}
					}
				}
			}
		}
	}
}`

// Query returns the introspection query for opts.
func Query(opts Options) string {
	var repeatable, specifiedBy, includeDeprecated, inputDeprecation string
	if opts.DirectiveIsRepeatable {
		repeatable = "\n\t\t\tisRepeatable"
	}
	if opts.SpecifiedByURL {
		specifiedBy = "\n\tspecifiedByURL"
	}
	if opts.InputValueDeprecation {
		includeDeprecated = "(includeDeprecated: true)"
		inputDeprecation = "\n\tisDeprecated\n\tdeprecationReason"
	}
	return fmt.Sprintf(queryTemplate,
		repeatable,
		includeDeprecated,
		specifiedBy,
		includeDeprecated,
		includeDeprecated,
		inputDeprecation,
	)
}
