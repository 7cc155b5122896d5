package schemabuilder

import (
	"fmt"
	"reflect"

	"go.appointy.com/sdlkit/graphql"
)

// Hooks customize a schema after the builder has produced it and before it is
// returned. A hooks provider (for example Apollo Federation support) adds its
// directives, types and root fields here.
type Hooks interface {
	WillBuildSchema(schema *graphql.Schema) error
}

// NoopHooks leaves the schema untouched.
type NoopHooks struct{}

// WillBuildSchema implements Hooks.
func (NoopHooks) WillBuildSchema(*graphql.Schema) error { return nil }

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	hooks []Hooks
}

// WithHooks runs h on the built schema. Hooks run in the order they are given.
func WithHooks(h ...Hooks) BuildOption {
	return func(o *buildOptions) {
		o.hooks = append(o.hooks, h...)
	}
}

// schemaBuilder is a struct for holding all the graph information for types as
// we build a schema.
type schemaBuilder struct {
	types        map[reflect.Type]graphql.Type
	objects      map[reflect.Type]*Object
	inputObjects map[reflect.Type]*InputObject
	enumMappings map[reflect.Type]*EnumMapping
	scalars      map[string]*graphql.Scalar
	inputTypes   map[reflect.Type]*graphql.InputObject
}

// Build takes the schema we have built on our Query and Mutation starting points and builds a full graphql.Schema
// We can use graphql.Schema to execute and run queries. Essentially we read through all the methods we've attached to our
// Query and Mutation Objects and ensure that those functions are returning other Objects that we can resolve in our GraphQL graph.
func (s *Schema) Build(opts ...BuildOption) (*graphql.Schema, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	sb := &schemaBuilder{
		types:        make(map[reflect.Type]graphql.Type),
		objects:      make(map[reflect.Type]*Object),
		inputObjects: make(map[reflect.Type]*InputObject),
		enumMappings: s.enumTypes,
		scalars:      make(map[string]*graphql.Scalar),
		inputTypes:   make(map[reflect.Type]*graphql.InputObject),
	}

	for _, object := range s.objects {
		typ := indirect(reflect.TypeOf(object.Type))
		if _, ok := sb.objects[typ]; ok {
			return nil, fmt.Errorf("duplicate object for %s", typ)
		}
		sb.objects[typ] = object
	}
	for _, input := range s.inputObjects {
		typ := indirect(reflect.TypeOf(input.Type))
		if _, ok := sb.inputObjects[typ]; ok {
			return nil, fmt.Errorf("duplicate input object for %s", typ)
		}
		sb.inputObjects[typ] = input
	}

	queryTyp, err := sb.getObject(reflect.TypeOf(query{}))
	if err != nil {
		return nil, err
	}

	schema := &graphql.Schema{
		Query:      queryTyp,
		Directives: graphql.BuiltInDirectives(),
	}

	if m := s.objects["Mutation"]; m != nil && len(m.Methods) > 0 {
		mutationTyp, err := sb.getObject(reflect.TypeOf(mutation{}))
		if err != nil {
			return nil, err
		}
		schema.Mutation = mutationTyp
	}

	// Registered objects are part of the schema even when no root field reaches them.
	for _, name := range s.objectNames() {
		if name == "Query" || name == "Mutation" {
			continue
		}
		object, err := sb.getObject(indirect(reflect.TypeOf(s.objects[name].Type)))
		if err != nil {
			return nil, err
		}
		schema.AddType(object)
	}

	for _, h := range o.hooks {
		if err := h.WillBuildSchema(schema); err != nil {
			return nil, err
		}
	}

	if len(schema.Query.Fields) == 0 {
		return nil, fmt.Errorf("invalid schema: Query has no fields")
	}

	return schema, nil
}

// MustBuild builds a schema and panics if an error occurs.
func (s *Schema) MustBuild(opts ...BuildOption) *graphql.Schema {
	built, err := s.Build(opts...)
	if err != nil {
		panic(err)
	}
	return built
}

func indirect(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Ptr {
		return typ.Elem()
	}
	return typ
}

// getType is the "core" function of the GraphQL schema builder.  It takes in a reflect type and builds the appropriate graphQL "type".
// This includes going through struct fields and attached object methods to generate the entire graphql graph of possible queries.
// This function will be called recursively for types as we go through the graph.
func (sb *schemaBuilder) getType(t reflect.Type) (graphql.Type, error) {
	// Support scalars and optional scalars. Scalars have precedence over structs
	// to have eg. Timestamp function as a scalar.
	if leaf, ok := sb.getLeafType(t); ok {
		return &graphql.NonNull{Type: leaf}, nil
	}

	switch t.Kind() {
	case reflect.Ptr:
		inner, err := sb.getType(t.Elem())
		if err != nil {
			return nil, err
		}
		if nonNull, ok := inner.(*graphql.NonNull); ok {
			return nonNull.Type, nil
		}
		return inner, nil

	case reflect.Slice:
		elem, err := sb.getType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: &graphql.List{Type: elem}}, nil

	case reflect.Struct:
		object, err := sb.getObject(t)
		if err != nil {
			return nil, err
		}
		return &graphql.NonNull{Type: object}, nil

	default:
		return nil, fmt.Errorf("bad type %s: should be a scalar, slice, or struct type", t)
	}
}

// getLeafType resolves registered enums and scalars.
func (sb *schemaBuilder) getLeafType(t reflect.Type) (graphql.Type, bool) {
	if mapping, ok := sb.enumMappings[t]; ok {
		return sb.getEnum(t, mapping), true
	}
	name, ok := getScalar(t)
	if !ok {
		return nil, false
	}
	if scalar, ok := sb.scalars[name]; ok {
		return scalar, true
	}

	var scalar *graphql.Scalar
	switch name {
	case "String":
		scalar = graphql.String
	case "Int":
		scalar = graphql.Int
	case "Float":
		scalar = graphql.Float
	case "Boolean":
		scalar = graphql.Boolean
	case "ID":
		scalar = graphql.ID
	default:
		scalar = &graphql.Scalar{Name: name, SpecifiedByURL: getScalarSpecifiedByURL(t)}
	}
	sb.scalars[name] = scalar
	return scalar, true
}

func (sb *schemaBuilder) getEnum(typ reflect.Type, mapping *EnumMapping) *graphql.Enum {
	if cached, ok := sb.types[typ]; ok {
		return cached.(*graphql.Enum)
	}

	enum := &graphql.Enum{
		Name:        typ.Name(),
		Description: mapping.Description,
	}
	for _, name := range sortedKeys(mapping.Map) {
		enum.Values = append(enum.Values, &graphql.EnumValue{Name: name})
	}
	sb.types[typ] = enum
	return enum
}

// getObject returns the object for typ, building its fields on first use.
// Exported struct fields become fields unless a FieldFunc with the same name
// is registered.
func (sb *schemaBuilder) getObject(typ reflect.Type) (*graphql.Object, error) {
	if cached, ok := sb.types[typ]; ok {
		object, ok := cached.(*graphql.Object)
		if !ok {
			return nil, fmt.Errorf("%s is not an object", typ)
		}
		return object, nil
	}

	name := typ.Name()
	var description string
	var methods Methods
	var directives []*graphql.Directive
	if registered, ok := sb.objects[typ]; ok {
		name = registered.Name
		description = registered.Description
		methods = registered.Methods
		directives = registered.directives
	}
	if name == "" {
		return nil, fmt.Errorf("bad type %s: should have a name", typ)
	}

	object := &graphql.Object{
		Name:        name,
		Description: description,
		Fields:      make(map[string]*graphql.Field),
		Directives:  directives,
	}
	// Cache before walking fields so self-referencing types terminate.
	sb.types[typ] = object

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous {
			return nil, fmt.Errorf("bad type %s: anonymous fields not supported", typ)
		}
		info, err := parseFieldTag(field)
		if err != nil {
			return nil, fmt.Errorf("bad type %s: %s", typ, err)
		}
		if info.Skip {
			continue
		}
		if _, ok := object.Fields[info.Name]; ok {
			return nil, fmt.Errorf("bad type %s: two fields named %s", typ, info.Name)
		}
		if _, ok := methods[info.Name]; ok {
			continue
		}

		fieldTyp, err := sb.getType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("bad field %s on type %s: %s", info.Name, typ, err)
		}
		f := &graphql.Field{
			Name:        info.Name,
			Description: info.Description,
			Type:        fieldTyp,
		}
		if info.Deprecated != "" {
			reason := info.Deprecated
			f.IsDeprecated = true
			f.DeprecationReason = &reason
		}
		object.AddField(f)
	}

	for _, name := range sortedKeys(methods) {
		f, err := sb.buildFunction(typ, methods[name])
		if err != nil {
			return nil, fmt.Errorf("bad method %s on type %s: %s", name, typ, err)
		}
		f.Name = name
		object.AddField(f)
	}

	return object, nil
}

// buildFunction takes the reflect type of an object and a method attached to
// that object and returns the field it exposes. The function may take a
// context.Context, the source object and an args struct, in that order, and
// returns a value and optionally an error.
func (sb *schemaBuilder) buildFunction(typ reflect.Type, m *method) (*graphql.Field, error) {
	fun := reflect.ValueOf(m.Fn)
	if fun.Kind() != reflect.Func {
		return nil, fmt.Errorf("fun must be func, not %s", fun.Kind())
	}
	funTyp := fun.Type()

	in := make([]reflect.Type, 0, funTyp.NumIn())
	for i := 0; i < funTyp.NumIn(); i++ {
		in = append(in, funTyp.In(i))
	}

	if len(in) > 0 && in[0] == contextType {
		in = in[1:]
	}
	if len(in) > 0 && (in[0] == typ || in[0] == reflect.PtrTo(typ)) {
		in = in[1:]
	}

	var args []*graphql.InputValue
	if len(in) > 0 && in[0].Kind() == reflect.Struct {
		var err error
		if args, err = sb.makeArguments(in[0]); err != nil {
			return nil, err
		}
		in = in[1:]
	}
	if len(in) > 0 {
		return nil, fmt.Errorf("unexpected argument type %s", in[0])
	}

	out := make([]reflect.Type, 0, funTyp.NumOut())
	for i := 0; i < funTyp.NumOut(); i++ {
		out = append(out, funTyp.Out(i))
	}
	if len(out) > 0 && out[len(out)-1] == errType {
		out = out[:len(out)-1]
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("should return exactly one value and an optional error")
	}

	retTyp, err := sb.getType(out[0])
	if err != nil {
		return nil, err
	}
	if _, ok := retTyp.(*graphql.NonNull); !ok && m.MarkedNonNullable {
		retTyp = &graphql.NonNull{Type: retTyp}
	}

	f := &graphql.Field{
		Description: m.Description,
		Type:        retTyp,
		Args:        args,
	}
	if m.DeprecationReason != nil {
		f.IsDeprecated = true
		f.DeprecationReason = m.DeprecationReason
	}
	return f, nil
}

// makeArguments turns the fields of an args struct into ordered arguments.
func (sb *schemaBuilder) makeArguments(typ reflect.Type) ([]*graphql.InputValue, error) {
	var args []*graphql.InputValue
	seen := make(map[string]bool)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous {
			return nil, fmt.Errorf("bad arg type %s: anonymous fields not supported", typ)
		}
		info, err := parseFieldTag(field)
		if err != nil {
			return nil, fmt.Errorf("bad arg type %s: %s", typ, err)
		}
		if info.Skip {
			continue
		}
		if seen[info.Name] {
			return nil, fmt.Errorf("bad arg type %s: duplicate field %s", typ, info.Name)
		}
		seen[info.Name] = true

		argTyp, err := sb.getInputType(field.Type)
		if err != nil {
			return nil, err
		}
		if nonNull, ok := argTyp.(*graphql.NonNull); ok && info.Optional {
			argTyp = nonNull.Type
		}

		args = append(args, &graphql.InputValue{
			Name:        info.Name,
			Description: info.Description,
			Type:        argTyp,
		})
	}
	return args, nil
}
