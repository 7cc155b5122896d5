package introspection

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"go.appointy.com/sdlkit/graphql"
)

// FromSchema returns the introspection result a server exposing schema would
// answer with. Types are sorted by name; directives keep their declared order.
// Directives applied to schema elements have no introspection representation
// and are dropped, except @deprecated and @specifiedBy.
func FromSchema(schema *graphql.Schema) *Result {
	out := Schema{
		QueryType:        typeName(schema.Query),
		MutationType:     typeName(schema.Mutation),
		SubscriptionType: typeName(schema.Subscription),
		Types:            []FullType{},
		Directives:       []Directive{},
	}

	types := graphql.CollectTypes(schema)
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Types = append(out.Types, fullType(types[name]))
	}

	for _, d := range schema.Directives {
		locations := make([]string, 0, len(d.Locations))
		for _, loc := range d.Locations {
			locations = append(locations, string(loc))
		}
		out.Directives = append(out.Directives, Directive{
			Name:         d.Name,
			Description:  d.Description,
			Locations:    locations,
			Args:         inputValues(d.Args),
			IsRepeatable: d.Repeatable,
		})
	}
	return &Result{Schema: out}
}

func typeName(o *graphql.Object) *TypeName {
	if o == nil {
		return nil
	}
	return &TypeName{Name: o.Name}
}

func fullType(typ graphql.NamedType) FullType {
	t := FullType{
		Kind:        string(graphql.KindOf(typ)),
		Name:        typ.TypeName(),
		Description: typ.TypeDescription(),
	}

	switch typ := typ.(type) {
	case *graphql.Object:
		t.Fields = fields(typ.Fields)
		t.Interfaces = []TypeRef{}
		for _, name := range sortedNames(typ.Interfaces) {
			t.Interfaces = append(t.Interfaces, typeRef(typ.Interfaces[name]))
		}
	case *graphql.Interface:
		t.Fields = fields(typ.Fields)
		t.PossibleTypes = possibleTypes(typ.Types)
	case *graphql.Union:
		t.PossibleTypes = possibleTypes(typ.Types)
	case *graphql.Enum:
		for _, v := range typ.Values {
			t.EnumValues = append(t.EnumValues, EnumValue{
				Name:              v.Name,
				Description:       v.Description,
				IsDeprecated:      v.IsDeprecated,
				DeprecationReason: deprecationReason(v.IsDeprecated, v.DeprecationReason),
			})
		}
	case *graphql.InputObject:
		t.InputFields = []InputValue{}
		for _, name := range sortedNames(typ.Fields) {
			t.InputFields = append(t.InputFields, inputValue(typ.Fields[name]))
		}
	case *graphql.Scalar:
		if typ.SpecifiedByURL != "" {
			url := typ.SpecifiedByURL
			t.SpecifiedByURL = &url
		}
	}
	return t
}

func fields(in map[string]*graphql.Field) []Field {
	out := make([]Field, 0, len(in))
	for _, name := range sortedNames(in) {
		f := in[name]
		out = append(out, Field{
			Name:              f.Name,
			Description:       f.Description,
			Args:              inputValues(f.Args),
			Type:              typeRef(f.Type),
			IsDeprecated:      f.IsDeprecated,
			DeprecationReason: deprecationReason(f.IsDeprecated, f.DeprecationReason),
		})
	}
	return out
}

func possibleTypes(objects map[string]*graphql.Object) []TypeRef {
	out := make([]TypeRef, 0, len(objects))
	for _, name := range sortedNames(objects) {
		out = append(out, typeRef(objects[name]))
	}
	return out
}

func inputValues(in []*graphql.InputValue) []InputValue {
	out := make([]InputValue, 0, len(in))
	for _, v := range in {
		out = append(out, inputValue(v))
	}
	return out
}

func inputValue(v *graphql.InputValue) InputValue {
	out := InputValue{
		Name:         v.Name,
		Description:  v.Description,
		Type:         typeRef(v.Type),
		DefaultValue: v.DefaultValue,
	}
	for _, d := range v.Directives {
		if d.Name != graphql.DeprecatedDirective.Name {
			continue
		}
		out.IsDeprecated = true
		reason := graphql.DefaultDeprecationReason
		for _, arg := range d.Args {
			if s, ok := arg.Value.(string); ok && arg.Name == "reason" {
				reason = s
			}
		}
		out.DeprecationReason = &reason
	}
	return out
}

func deprecationReason(deprecated bool, reason *string) *string {
	if !deprecated {
		return nil
	}
	if reason == nil || *reason == "" {
		r := graphql.DefaultDeprecationReason
		return &r
	}
	return reason
}

func typeRef(t graphql.Type) TypeRef {
	switch t := t.(type) {
	case *graphql.NonNull:
		inner := typeRef(t.Type)
		return TypeRef{Kind: string(graphql.KindNonNull), OfType: &inner}
	case *graphql.List:
		inner := typeRef(t.Type)
		return TypeRef{Kind: string(graphql.KindList), OfType: &inner}
	case graphql.NamedType:
		name := t.TypeName()
		return TypeRef{Kind: string(graphql.KindOf(t)), Name: &name}
	}
	return TypeRef{}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToSchema rebuilds a schema from an introspection result. Introspection types
// (names starting with "__") are skipped and built-in scalars resolve to the
// graphql package singletons.
func ToSchema(result *Schema) (*graphql.Schema, error) {
	if result.QueryType == nil {
		return nil, errors.New("introspection result has no query type")
	}

	b := &schemaBuilder{named: make(map[string]graphql.NamedType)}
	for _, t := range result.Types {
		if strings.HasPrefix(t.Name, "__") {
			continue
		}
		if err := b.declare(t); err != nil {
			return nil, err
		}
	}
	for _, t := range result.Types {
		if strings.HasPrefix(t.Name, "__") {
			continue
		}
		if err := b.fill(t); err != nil {
			return nil, errors.Wrapf(err, "type %s", t.Name)
		}
	}

	schema := &graphql.Schema{}
	var err error
	if schema.Query, err = b.root(result.QueryType); err != nil {
		return nil, err
	}
	if schema.Mutation, err = b.root(result.MutationType); err != nil {
		return nil, err
	}
	if schema.Subscription, err = b.root(result.SubscriptionType); err != nil {
		return nil, err
	}

	for _, name := range sortedNames(b.named) {
		typ := b.named[name]
		if graphql.IsBuiltInScalar(name) || isRoot(schema, typ) {
			continue
		}
		schema.AddType(typ)
	}

	for _, d := range result.Directives {
		args, err := b.inputValues(d.Args)
		if err != nil {
			return nil, errors.Wrapf(err, "directive @%s", d.Name)
		}
		def := &graphql.DirectiveDefinition{
			Name:        d.Name,
			Description: d.Description,
			Args:        args,
			Repeatable:  d.IsRepeatable,
		}
		for _, loc := range d.Locations {
			def.Locations = append(def.Locations, graphql.DirectiveLocation(loc))
		}
		schema.Directives = append(schema.Directives, def)
	}
	return schema, nil
}

func isRoot(schema *graphql.Schema, typ graphql.NamedType) bool {
	o, ok := typ.(*graphql.Object)
	return ok && (o == schema.Query || o == schema.Mutation || o == schema.Subscription)
}

type schemaBuilder struct {
	named map[string]graphql.NamedType
}

func (b *schemaBuilder) declare(t FullType) error {
	if _, ok := b.named[t.Name]; ok {
		return errors.Errorf("type %s is declared twice", t.Name)
	}

	var typ graphql.NamedType
	switch graphql.TypeKind(t.Kind) {
	case graphql.KindScalar:
		if s := builtInScalar(t.Name); s != nil {
			typ = s
			break
		}
		s := &graphql.Scalar{Name: t.Name, Description: t.Description}
		if t.SpecifiedByURL != nil {
			s.SpecifiedByURL = *t.SpecifiedByURL
		}
		typ = s
	case graphql.KindObject:
		typ = &graphql.Object{Name: t.Name, Description: t.Description}
	case graphql.KindInterface:
		typ = &graphql.Interface{Name: t.Name, Description: t.Description}
	case graphql.KindUnion:
		typ = &graphql.Union{Name: t.Name, Description: t.Description}
	case graphql.KindEnum:
		typ = &graphql.Enum{Name: t.Name, Description: t.Description}
	case graphql.KindInputObject:
		typ = &graphql.InputObject{Name: t.Name, Description: t.Description}
	default:
		return errors.Errorf("type %s has unknown kind %q", t.Name, t.Kind)
	}
	b.named[t.Name] = typ
	return nil
}

func builtInScalar(name string) *graphql.Scalar {
	switch name {
	case "String":
		return graphql.String
	case "Int":
		return graphql.Int
	case "Float":
		return graphql.Float
	case "Boolean":
		return graphql.Boolean
	case "ID":
		return graphql.ID
	}
	return nil
}

func (b *schemaBuilder) fill(t FullType) error {
	switch typ := b.named[t.Name].(type) {
	case *graphql.Object:
		fields, err := b.fields(t.Fields)
		if err != nil {
			return err
		}
		typ.Fields = fields
		for _, ref := range t.Interfaces {
			iface, err := b.namedAs(ref)
			if err != nil {
				return err
			}
			i, ok := iface.(*graphql.Interface)
			if !ok {
				return errors.Errorf("%s is not an interface", iface.TypeName())
			}
			if typ.Interfaces == nil {
				typ.Interfaces = make(map[string]*graphql.Interface)
			}
			typ.Interfaces[i.Name] = i
		}

	case *graphql.Interface:
		fields, err := b.fields(t.Fields)
		if err != nil {
			return err
		}
		typ.Fields = fields
		if typ.Types, err = b.objects(t.PossibleTypes); err != nil {
			return err
		}

	case *graphql.Union:
		objects, err := b.objects(t.PossibleTypes)
		if err != nil {
			return err
		}
		typ.Types = objects

	case *graphql.Enum:
		for _, v := range t.EnumValues {
			typ.Values = append(typ.Values, &graphql.EnumValue{
				Name:              v.Name,
				Description:       v.Description,
				IsDeprecated:      v.IsDeprecated,
				DeprecationReason: v.DeprecationReason,
			})
		}

	case *graphql.InputObject:
		values, err := b.inputValues(t.InputFields)
		if err != nil {
			return err
		}
		typ.Fields = make(map[string]*graphql.InputValue, len(values))
		for _, v := range values {
			typ.Fields[v.Name] = v
		}
	}
	return nil
}

func (b *schemaBuilder) fields(in []Field) (map[string]*graphql.Field, error) {
	out := make(map[string]*graphql.Field, len(in))
	for _, f := range in {
		typ, err := b.resolve(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		args, err := b.inputValues(f.Args)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		out[f.Name] = &graphql.Field{
			Name:              f.Name,
			Description:       f.Description,
			Type:              typ,
			Args:              args,
			IsDeprecated:      f.IsDeprecated,
			DeprecationReason: f.DeprecationReason,
		}
	}
	return out, nil
}

func (b *schemaBuilder) inputValues(in []InputValue) ([]*graphql.InputValue, error) {
	out := make([]*graphql.InputValue, 0, len(in))
	for _, v := range in {
		typ, err := b.resolve(v.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "input value %s", v.Name)
		}
		iv := &graphql.InputValue{
			Name:         v.Name,
			Description:  v.Description,
			Type:         typ,
			DefaultValue: v.DefaultValue,
		}
		if v.IsDeprecated {
			reason := graphql.DefaultDeprecationReason
			if v.DeprecationReason != nil && *v.DeprecationReason != "" {
				reason = *v.DeprecationReason
			}
			iv.Directives = append(iv.Directives, &graphql.Directive{
				Name: graphql.DeprecatedDirective.Name,
				Args: []*graphql.DirectiveArg{{Name: "reason", Value: reason}},
			})
		}
		out = append(out, iv)
	}
	return out, nil
}

func (b *schemaBuilder) objects(refs []TypeRef) (map[string]*graphql.Object, error) {
	out := make(map[string]*graphql.Object, len(refs))
	for _, ref := range refs {
		typ, err := b.namedAs(ref)
		if err != nil {
			return nil, err
		}
		o, ok := typ.(*graphql.Object)
		if !ok {
			return nil, errors.Errorf("%s is not an object", typ.TypeName())
		}
		out[o.Name] = o
	}
	return out, nil
}

func (b *schemaBuilder) resolve(ref TypeRef) (graphql.Type, error) {
	switch graphql.TypeKind(ref.Kind) {
	case graphql.KindNonNull, graphql.KindList:
		if ref.OfType == nil {
			return nil, errors.Errorf("%s type reference without ofType", ref.Kind)
		}
		inner, err := b.resolve(*ref.OfType)
		if err != nil {
			return nil, err
		}
		if graphql.TypeKind(ref.Kind) == graphql.KindList {
			return &graphql.List{Type: inner}, nil
		}
		return &graphql.NonNull{Type: inner}, nil
	}
	return b.namedAs(ref)
}

func (b *schemaBuilder) namedAs(ref TypeRef) (graphql.NamedType, error) {
	if ref.Name == nil {
		return nil, errors.Errorf("%s type reference without a name", ref.Kind)
	}
	typ, ok := b.named[*ref.Name]
	if !ok {
		return nil, errors.Errorf("unknown type %s", *ref.Name)
	}
	return typ, nil
}

func (b *schemaBuilder) root(name *TypeName) (*graphql.Object, error) {
	if name == nil {
		return nil, nil
	}
	typ, ok := b.named[name.Name]
	if !ok {
		return nil, errors.Errorf("unknown root type %s", name.Name)
	}
	o, ok := typ.(*graphql.Object)
	if !ok {
		return nil, errors.Errorf("root type %s is not an object", name.Name)
	}
	return o, nil
}
