package schemabuilder

import (
	"fmt"
	"reflect"
	"sort"

	"go.appointy.com/sdlkit/graphql"
)

// getInputType returns the argument type of typ. Values are non-null and
// pointers are nullable, the same as output types. Structs become input
// objects named after their registration or their Go type.
func (sb *schemaBuilder) getInputType(typ reflect.Type) (graphql.Type, error) {
	if leaf, ok := sb.getLeafType(typ); ok {
		return &graphql.NonNull{Type: leaf}, nil
	}

	switch typ.Kind() {
	case reflect.Ptr:
		inner, err := sb.getInputType(typ.Elem())
		if err != nil {
			return nil, err
		}
		if nonNull, ok := inner.(*graphql.NonNull); ok {
			return nonNull.Type, nil
		}
		return inner, nil

	case reflect.Slice:
		elem, err := sb.getInputType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: &graphql.List{Type: elem}}, nil

	case reflect.Struct:
		input, err := sb.makeInputObject(typ)
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: input}, nil

	default:
		return nil, fmt.Errorf("bad arg type %s: should be struct, scalar, pointer, or a slice", typ)
	}
}

// makeInputObject generates the input object for an argument struct. Every
// exported field becomes an input field; `optional` in the graphql tag makes a
// value field nullable.
func (sb *schemaBuilder) makeInputObject(typ reflect.Type) (*graphql.InputObject, error) {
	if cached, ok := sb.inputTypes[typ]; ok {
		return cached, nil
	}

	name := typ.Name()
	var description string
	if registered, ok := sb.inputObjects[typ]; ok {
		name = registered.Name
		description = registered.Description
	}
	if name == "" {
		return nil, fmt.Errorf("bad type %s: should have a name", typ)
	}

	input := &graphql.InputObject{
		Name:        name,
		Description: description,
		Fields:      make(map[string]*graphql.InputValue),
	}
	// Cache type information ahead of time to catch self-reference
	sb.inputTypes[typ] = input

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous {
			return nil, fmt.Errorf("bad arg type %s: anonymous fields not supported", typ)
		}

		info, err := parseFieldTag(field)
		if err != nil {
			return nil, fmt.Errorf("bad type %s: %s", typ, err.Error())
		}
		if info.Skip {
			continue
		}
		if _, ok := input.Fields[info.Name]; ok {
			return nil, fmt.Errorf("bad arg type %s: duplicate field %s", typ, info.Name)
		}

		fieldTyp, err := sb.getInputType(field.Type)
		if err != nil {
			return nil, err
		}
		if nonNull, ok := fieldTyp.(*graphql.NonNull); ok && info.Optional {
			fieldTyp = nonNull.Type
		}

		value := &graphql.InputValue{
			Name:        info.Name,
			Description: info.Description,
			Type:        fieldTyp,
		}
		if info.Deprecated != "" {
			value.Directives = append(value.Directives, &graphql.Directive{
				Name: graphql.DeprecatedDirective.Name,
				Args: []*graphql.DirectiveArg{{Name: "reason", Value: info.Deprecated}},
			})
		}
		input.Fields[info.Name] = value
	}

	return input, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
