// Package sdl prints a graphql.Schema as GraphQL Schema Definition Language.
//
// The layout is stable: the schema definition comes first, then directive
// definitions sorted by name, then named types grouped by kind (interfaces,
// unions, objects, enums, scalars, input objects) and sorted by name inside
// each group. Built-in scalars and introspection types are never printed.
package sdl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.appointy.com/sdlkit/graphql"
)

const (
	fieldIndent   = "  "
	argIndent     = "    "
	argHalfIndent = "  "
)

// kindOrder is the order in which groups of named types are printed.
var kindOrder = []graphql.TypeKind{
	graphql.KindInterface,
	graphql.KindUnion,
	graphql.KindObject,
	graphql.KindEnum,
	graphql.KindScalar,
	graphql.KindInputObject,
}

// Print renders schema as SDL. The result ends with a single newline.
func Print(schema *graphql.Schema) string {
	var blocks []string

	blocks = append(blocks, printSchemaDefinition(schema))

	directives := make([]*graphql.DirectiveDefinition, len(schema.Directives))
	copy(directives, schema.Directives)
	sort.Slice(directives, func(i, j int) bool { return directives[i].Name < directives[j].Name })
	for _, d := range directives {
		blocks = append(blocks, printDirectiveDefinition(d))
	}

	types := graphql.CollectTypes(schema)
	names := make([]string, 0, len(types))
	for name := range types {
		if strings.HasPrefix(name, "__") || graphql.IsBuiltInScalar(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, kind := range kindOrder {
		for _, name := range names {
			typ := types[name]
			if graphql.KindOf(typ) != kind {
				continue
			}
			blocks = append(blocks, printType(typ))
		}
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

func printSchemaDefinition(schema *graphql.Schema) string {
	var b strings.Builder
	b.WriteString("schema ")
	b.WriteString(printDirectives(schema.SchemaDirectives))
	b.WriteString("{\n")
	if schema.Query != nil {
		fmt.Fprintf(&b, "%squery: %s\n", fieldIndent, schema.Query.Name)
	}
	if schema.Mutation != nil {
		fmt.Fprintf(&b, "%smutation: %s\n", fieldIndent, schema.Mutation.Name)
	}
	if schema.Subscription != nil {
		fmt.Fprintf(&b, "%ssubscription: %s\n", fieldIndent, schema.Subscription.Name)
	}
	b.WriteString("}")
	return b.String()
}

func printDirectiveDefinition(d *graphql.DirectiveDefinition) string {
	var b strings.Builder
	b.WriteString(printDescription(d.Description, ""))
	b.WriteString("directive @")
	b.WriteString(d.Name)
	b.WriteString(printArgs(d.Args))
	if d.Repeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	for i, loc := range d.Locations {
		if i != 0 {
			b.WriteString(" | ")
		}
		b.WriteString(string(loc))
	}
	return b.String()
}

func printType(typ graphql.NamedType) string {
	switch t := typ.(type) {
	case *graphql.Object:
		return printObject(t)
	case *graphql.Interface:
		return printInterface(t)
	case *graphql.Union:
		return printUnion(t)
	case *graphql.Enum:
		return printEnum(t)
	case *graphql.Scalar:
		return printScalar(t)
	case *graphql.InputObject:
		return printInputObject(t)
	default:
		panic(fmt.Sprintf("sdl: unsupported type %T", typ))
	}
}

func printObject(t *graphql.Object) string {
	var b strings.Builder
	b.WriteString(printDescription(t.Description, ""))
	b.WriteString("type ")
	b.WriteString(t.Name)
	if len(t.Interfaces) > 0 {
		names := make([]string, 0, len(t.Interfaces))
		for name := range t.Interfaces {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString(" implements ")
		b.WriteString(strings.Join(names, " & "))
	}
	if len(t.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(t.Directives))
	}
	b.WriteString(" {\n")
	b.WriteString(printFields(t.Fields))
	b.WriteString("}")
	return b.String()
}

func printInterface(t *graphql.Interface) string {
	var b strings.Builder
	b.WriteString(printDescription(t.Description, ""))
	b.WriteString("interface ")
	b.WriteString(t.Name)
	if len(t.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(t.Directives))
	}
	b.WriteString(" {\n")
	b.WriteString(printFields(t.Fields))
	b.WriteString("}")
	return b.String()
}

func printFields(fields map[string]*graphql.Field) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		f := fields[name]
		b.WriteString(printDescription(f.Description, fieldIndent))
		b.WriteString(fieldIndent)
		b.WriteString(f.Name)
		b.WriteString(printArgs(f.Args))
		b.WriteString(": ")
		b.WriteString(f.Type.String())
		if f.IsDeprecated {
			b.WriteString(" ")
			b.WriteString(printDeprecation(f.DeprecationReason))
		}
		if len(f.Directives) > 0 {
			b.WriteString(" ")
			b.WriteString(printDirectives(f.Directives))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func printUnion(t *graphql.Union) string {
	var b strings.Builder
	b.WriteString(printDescription(t.Description, ""))
	b.WriteString("union ")
	b.WriteString(t.Name)
	if len(t.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(t.Directives))
	}
	names := make([]string, 0, len(t.Types))
	for name := range t.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString(" = ")
	b.WriteString(strings.Join(names, " | "))
	return b.String()
}

func printEnum(t *graphql.Enum) string {
	var b strings.Builder
	b.WriteString(printDescription(t.Description, ""))
	b.WriteString("enum ")
	b.WriteString(t.Name)
	if len(t.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(t.Directives))
	}
	b.WriteString(" {\n")
	for _, v := range t.Values {
		b.WriteString(printDescription(v.Description, fieldIndent))
		b.WriteString(fieldIndent)
		b.WriteString(v.Name)
		if v.IsDeprecated {
			b.WriteString(" ")
			b.WriteString(printDeprecation(v.DeprecationReason))
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func printScalar(t *graphql.Scalar) string {
	var b strings.Builder
	b.WriteString(printDescription(t.Description, ""))
	b.WriteString("scalar ")
	b.WriteString(t.Name)
	if t.SpecifiedByURL != "" {
		b.WriteString(" @specifiedBy(url : ")
		b.WriteString(quote(t.SpecifiedByURL))
		b.WriteString(")")
	}
	if len(t.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(t.Directives))
	}
	return b.String()
}

func printInputObject(t *graphql.InputObject) string {
	var b strings.Builder
	b.WriteString(printDescription(t.Description, ""))
	b.WriteString("input ")
	b.WriteString(t.Name)
	if len(t.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(t.Directives))
	}
	b.WriteString(" {\n")

	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := t.Fields[name]
		b.WriteString(printDescription(f.Description, fieldIndent))
		b.WriteString(fieldIndent)
		b.WriteString(printInputValue(f))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// printArgs renders an argument list. When any argument carries a description
// every argument goes on its own line, indented below the owner.
func printArgs(args []*graphql.InputValue) string {
	if len(args) == 0 {
		return ""
	}

	hasDescriptions := false
	for _, arg := range args {
		if arg.Description != "" {
			hasDescriptions = true
			break
		}
	}
	prefix, halfPrefix := "", ""
	if hasDescriptions {
		prefix, halfPrefix = argIndent, argHalfIndent
	}

	var b strings.Builder
	b.WriteString("(")
	if hasDescriptions {
		b.WriteString("\n")
	}
	for i, arg := range args {
		if i > 0 {
			if hasDescriptions {
				b.WriteString("\n")
			} else {
				b.WriteString(", ")
			}
		}
		if hasDescriptions {
			b.WriteString(printDescription(arg.Description, prefix))
		}
		b.WriteString(prefix)
		b.WriteString(printInputValue(arg))
	}
	if hasDescriptions {
		b.WriteString("\n")
	}
	b.WriteString(halfPrefix)
	b.WriteString(")")
	return b.String()
}

func printInputValue(v *graphql.InputValue) string {
	var b strings.Builder
	b.WriteString(v.Name)
	b.WriteString(": ")
	b.WriteString(v.Type.String())
	if v.DefaultValue != nil {
		b.WriteString(" = ")
		b.WriteString(*v.DefaultValue)
	}
	if len(v.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(printDirectives(v.Directives))
	}
	return b.String()
}

func printDeprecation(reason *string) string {
	r := graphql.DefaultDeprecationReason
	if reason != nil && *reason != "" {
		r = *reason
	}
	return "@deprecated(reason : " + quote(r) + ")"
}

func printDirectives(directives []*graphql.Directive) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, printDirective(d))
	}
	return strings.Join(parts, " ")
}

func printDirective(d *graphql.Directive) string {
	if len(d.Args) == 0 {
		return "@" + d.Name
	}
	args := make([]string, 0, len(d.Args))
	for _, arg := range d.Args {
		args = append(args, arg.Name+" : "+printValue(arg.Value))
	}
	return "@" + d.Name + "(" + strings.Join(args, ", ") + ")"
}

func printValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(v)
	case graphql.EnumLiteral:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []string:
		items := make([]string, 0, len(v))
		for _, s := range v {
			items = append(items, quote(s))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, printValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return quote(fmt.Sprint(v))
	}
}

func printDescription(desc, prefix string) string {
	if desc == "" {
		return ""
	}
	if !strings.Contains(desc, "\n") {
		return prefix + quote(desc) + "\n"
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(`"""`)
	b.WriteString("\n")
	for _, line := range strings.Split(desc, "\n") {
		if line != "" {
			b.WriteString(prefix)
			b.WriteString(strings.ReplaceAll(line, `"""`, `\"""`))
		}
		b.WriteString("\n")
	}
	b.WriteString(prefix)
	b.WriteString(`"""`)
	b.WriteString("\n")
	return b.String()
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}
