package schemabuilder

import (
	"context"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// fieldTag is what a struct field contributes to the schema. It is read from
// the graphql tag, falling back to the json tag:
//
//	Age int32 `graphql:"age,optional,deprecated=Use birthYear,description=Age in years"`
type fieldTag struct {
	// Skip is set for unexported fields and fields tagged "-".
	Skip bool

	Name string

	// Optional makes a value field nullable when used as an input.
	Optional bool

	// Deprecated is the @deprecated reason, empty when not deprecated.
	Deprecated string

	Description string
}

func parseFieldTag(field reflect.StructField) (*fieldTag, error) {
	if field.PkgPath != "" {
		return &fieldTag{Skip: true}, nil
	}

	raw, ok := field.Tag.Lookup("graphql")
	if !ok || raw == "" {
		raw = field.Tag.Get("json")
	}
	name, rest, _ := strings.Cut(raw, ",")

	info := &fieldTag{Name: strings.TrimSpace(name)}
	switch info.Name {
	case "-":
		return &fieldTag{Skip: true}, nil
	case "":
		info.Name = makeGraphql(field.Name)
	}

	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		opt = strings.TrimSpace(opt)
		if opt == "optional" {
			info.Optional = true
			continue
		}
		key, value, _ := strings.Cut(opt, "=")
		switch key {
		case "deprecated":
			info.Deprecated = value
		case "description":
			info.Description = value
		}
	}
	return info, nil
}

// makeGraphql converts a Go name "MyField" into the GraphQL name "myField".
func makeGraphql(s string) string {
	return strcase.ToLowerCamel(s)
}

var (
	errType     = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)
