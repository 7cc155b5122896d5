package graphql

import (
	"fmt"
)

// Type represents a GraphQL type, and should be either a named type (Object,
// Scalar, Enum, ...) or a wrapper (List, NonNull).
type Type interface {
	String() string

	// isType() is a no-op used to tag the known values of Type, to prevent
	// arbitrary interface{} from implementing Type
	isType()
}

// NamedType is a Type that is declared once in the schema and referenced by name.
type NamedType interface {
	Type
	TypeName() string
	TypeDescription() string
}

// Scalar is a leaf value.
// SpecifiedByURL holds the URL from the @specifiedBy directive, empty for built-ins.
type Scalar struct {
	Name           string
	Description    string
	SpecifiedByURL string
	Directives     []*Directive
}

func (s *Scalar) isType() {}

func (s *Scalar) String() string {
	return s.Name
}

func (s *Scalar) TypeName() string        { return s.Name }
func (s *Scalar) TypeDescription() string { return s.Description }

// EnumValue is a single member of an Enum.
type EnumValue struct {
	Name              string
	Description       string
	IsDeprecated      bool
	DeprecationReason *string
}

// Enum is a leaf value
type Enum struct {
	Name        string
	Description string
	Values      []*EnumValue
	Directives  []*Directive
}

func (e *Enum) isType() {}

func (e *Enum) String() string {
	return e.Name
}

func (e *Enum) TypeName() string        { return e.Name }
func (e *Enum) TypeDescription() string { return e.Description }

// Object is a value with several fields
type Object struct {
	Name        string
	Description string
	Fields      map[string]*Field
	Interfaces  map[string]*Interface
	Directives  []*Directive
}

func (o *Object) isType() {}

func (o *Object) String() string {
	return o.Name
}

func (o *Object) TypeName() string        { return o.Name }
func (o *Object) TypeDescription() string { return o.Description }

// AddField attaches f to the object, replacing any field with the same name.
func (o *Object) AddField(f *Field) {
	if o.Fields == nil {
		o.Fields = make(map[string]*Field)
	}
	o.Fields[f.Name] = f
}

// HasDirective reports whether a directive called name is applied to the object.
func (o *Object) HasDirective(name string) bool {
	for _, d := range o.Directives {
		if d.Name == name {
			return true
		}
	}
	return false
}

// List is a collection of other values
type List struct {
	Type Type
}

func (l *List) isType() {}

func (l *List) String() string {
	return fmt.Sprintf("[%s]", l.Type)
}

// InputObject defines the object in argument of a query, mutation or subscription.
type InputObject struct {
	Name        string
	Description string
	Fields      map[string]*InputValue
	Directives  []*Directive
}

func (io *InputObject) isType() {}

func (io *InputObject) String() string {
	return io.Name
}

func (io *InputObject) TypeName() string        { return io.Name }
func (io *InputObject) TypeDescription() string { return io.Description }

// NonNull is a non-nullable other value
type NonNull struct {
	Type Type
}

func (n *NonNull) isType() {}

func (n *NonNull) String() string {
	return fmt.Sprintf("%s!", n.Type)
}

// Union is a option between multiple types
type Union struct {
	Name        string
	Description string
	Types       map[string]*Object
	Directives  []*Directive
}

func (*Union) isType() {}

func (u *Union) String() string {
	return u.Name
}

func (u *Union) TypeName() string        { return u.Name }
func (u *Union) TypeDescription() string { return u.Description }

// Interface defines the graphql interface
type Interface struct {
	Name        string
	Description string
	Types       map[string]*Object
	Fields      map[string]*Field
	Directives  []*Directive
}

func (*Interface) isType() {}

func (i *Interface) String() string {
	return i.Name
}

func (i *Interface) TypeName() string        { return i.Name }
func (i *Interface) TypeDescription() string { return i.Description }

var _ NamedType = &Scalar{}
var _ NamedType = &Object{}
var _ NamedType = &InputObject{}
var _ NamedType = &Enum{}
var _ NamedType = &Union{}
var _ NamedType = &Interface{}
var _ Type = &List{}
var _ Type = &NonNull{}

// InputValue is an argument of a field or directive, or a field of an input
// object. DefaultValue holds a GraphQL literal (strings keep their quotes).
type InputValue struct {
	Name         string
	Description  string
	Type         Type
	DefaultValue *string
	Directives   []*Directive
}

// Field is a single field of an Object or Interface.
//
// Args keep their declaration order; the printer does not reorder them.
type Field struct {
	Name              string
	Description       string
	Type              Type
	Args              []*InputValue
	IsDeprecated      bool
	DeprecationReason *string
	Directives        []*Directive
}

// Directive is a directive applied to a schema element, e.g. @key(fields: "id").
type Directive struct {
	Name string
	Args []*DirectiveArg
}

// DirectiveArg is a single argument of an applied directive. Value may be a
// string, bool, int, float64, EnumLiteral, []string or []interface{}.
type DirectiveArg struct {
	Name  string
	Value interface{}
}

// EnumLiteral is printed without quotes when used as a directive argument value.
type EnumLiteral string

// DirectiveDefinition declares a directive available in the schema.
type DirectiveDefinition struct {
	Name        string
	Description string
	Args        []*InputValue
	Locations   []DirectiveLocation
	Repeatable  bool
}

// Schema is the root of a GraphQL type system.
//
// Types holds named types that must be part of the schema even when no root
// field reaches them. SchemaDirectives are applied to the schema definition.
type Schema struct {
	Query            *Object
	Mutation         *Object
	Subscription     *Object
	Directives       []*DirectiveDefinition
	Types            map[string]NamedType
	SchemaDirectives []*Directive
}

// AddType registers t as an additional type of the schema.
func (s *Schema) AddType(t NamedType) {
	if s.Types == nil {
		s.Types = make(map[string]NamedType)
	}
	s.Types[t.TypeName()] = t
}

// Directive returns the directive definition called name, or nil.
func (s *Schema) Directive(name string) *DirectiveDefinition {
	for _, d := range s.Directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// AddDirective declares d, replacing a previous definition with the same name.
func (s *Schema) AddDirective(d *DirectiveDefinition) {
	for i, existing := range s.Directives {
		if existing.Name == d.Name {
			s.Directives[i] = d
			return
		}
	}
	s.Directives = append(s.Directives, d)
}

// NamedTypeOf unwraps List and NonNull wrappers.
func NamedTypeOf(t Type) NamedType {
	for {
		switch typ := t.(type) {
		case *List:
			t = typ.Type
		case *NonNull:
			t = typ.Type
		case NamedType:
			return typ
		default:
			return nil
		}
	}
}
