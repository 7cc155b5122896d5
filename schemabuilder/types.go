package schemabuilder

import (
	"errors"
	"reflect"
	"strconv"
	"sync"

	"github.com/golang/protobuf/ptypes/duration"
	"github.com/golang/protobuf/ptypes/timestamp"

	"go.appointy.com/sdlkit/graphql"
)

//Object - an Object represents a Go type and set of methods to be converted into an Object in a GraphQL schema.
type Object struct {
	Name        string // Optional, defaults to Type's name.
	Description string
	Type        interface{}
	Methods     Methods

	directives []*graphql.Directive
}

// Directive applies d to the generated object, e.g. a federation @key.
func (s *Object) Directive(d *graphql.Directive) {
	s.directives = append(s.directives, d)
}

// A Methods map represents the set of methods exposed on a Object.
type Methods map[string]*method

type method struct {
	MarkedNonNullable bool
	Fn                interface{}
	Description       string
	DeprecationReason *string
}

// FieldOption customizes a field registered with FieldFunc.
type FieldOption func(*method)

// FieldDesc sets the description of the generated field.
func FieldDesc(description string) FieldOption {
	return func(m *method) {
		m.Description = description
	}
}

// Deprecated marks the generated field with @deprecated(reason: reason).
func Deprecated(reason string) FieldOption {
	return func(m *method) {
		m.DeprecationReason = &reason
	}
}

// NonNullable marks a field returning a pointer as non-null.
func NonNullable() FieldOption {
	return func(m *method) {
		m.MarkedNonNullable = true
	}
}

// EnumMapping is a representation of an enum that includes both the mapping and reverse mapping.
type EnumMapping struct {
	Map         map[string]interface{}
	ReverseMap  map[interface{}]string
	Description string
}

// FieldFunc exposes a field on an object. The function f can take a number of
// optional arguments:
// func([ctx context.Context], [o *Type], [args struct {}]) ([Result], [error])
//
// For example, for an object of type User, a fullName field might take just an
// instance of the object:
//    user.FieldFunc("fullName", func(u *User) string {
//       return u.FirstName + " " + u.LastName
//    })
//
// A helloWorld query with an optional argument:
//    query.FieldFunc("helloWorld", func(args struct{ Name *string }) string {
//        ...
//    })
//
// generates helloWorld(name: String): String!
func (s *Object) FieldFunc(name string, f interface{}, opts ...FieldOption) {
	if s.Methods == nil {
		s.Methods = make(Methods)
	}

	m := &method{Fn: f}
	for _, opt := range opts {
		opt(m)
	}

	if _, ok := s.Methods[name]; ok {
		panic("duplicate method")
	}
	s.Methods[name] = m
}

// scalarsMu guards scalars and scalarSpecifiedByURLs.
var scalarsMu sync.RWMutex

// scalars maps Go types to the GraphQL scalar they are exposed as.
var scalars = map[reflect.Type]string{
	reflect.TypeOf(bool(false)): "Boolean",
	reflect.TypeOf(int(0)):      "Int",
	reflect.TypeOf(int8(0)):     "Int",
	reflect.TypeOf(int16(0)):    "Int",
	reflect.TypeOf(int32(0)):    "Int",
	reflect.TypeOf(int64(0)):    "Int",
	reflect.TypeOf(uint(0)):     "Int",
	reflect.TypeOf(uint8(0)):    "Int",
	reflect.TypeOf(uint16(0)):   "Int",
	reflect.TypeOf(uint32(0)):   "Int",
	reflect.TypeOf(uint64(0)):   "Int",
	reflect.TypeOf(float32(0)):  "Float",
	reflect.TypeOf(float64(0)):  "Float",
	reflect.TypeOf(string("")):  "String",
	reflect.TypeOf(ID{}):        "ID",
	reflect.TypeOf(Timestamp{}): "Timestamp",
	reflect.TypeOf(Duration{}):  "Duration",
}

// scalarSpecifiedByURLs maps scalar reflect.Type to its optional @specifiedBy URL.
var scalarSpecifiedByURLs = map[reflect.Type]string{}

// RegisterScalar is used to register custom scalars. The optional specifiedByURL
// is printed as @specifiedBy(url: ...) on the scalar definition.
//
// For example, to expose uuid.UUID as a UUID scalar:
//
//	schemabuilder.RegisterScalar(reflect.TypeOf(uuid.UUID{}), "UUID",
//		"https://tools.ietf.org/html/rfc4122")
func RegisterScalar(typ reflect.Type, name string, specifiedByURL ...string) error {
	if typ.Kind() == reflect.Ptr {
		return errors.New("type should not be of pointer type")
	}
	if name == "" {
		return errors.New("scalar name must not be empty")
	}
	if len(specifiedByURL) > 1 {
		return errors.New("at most one specifiedByURL allowed")
	}

	scalarsMu.Lock()
	defer scalarsMu.Unlock()
	scalars[typ] = name
	if len(specifiedByURL) == 1 {
		scalarSpecifiedByURLs[typ] = specifiedByURL[0]
	}

	return nil
}

// getScalar returns the scalar name of typ, if typ is a registered scalar or
// a named alias of one.
func getScalar(typ reflect.Type) (string, bool) {
	scalarsMu.RLock()
	defer scalarsMu.RUnlock()
	if name, ok := scalars[typ]; ok {
		return name, true
	}
	for match, name := range scalars {
		// Aliases only resolve to predeclared Go types, so the lookup stays
		// deterministic when several custom scalars share a kind.
		if match.PkgPath() != "" {
			continue
		}
		if typesIdenticalOrScalarAliases(match, typ) {
			return name, true
		}
	}
	return "", false
}

// isScalarType checks whether a reflect.Type is scalar or not. Callers hold scalarsMu.
func isScalarType(t reflect.Type) bool {
	_, ok := scalars[t]
	return ok
}

// typesIdenticalOrScalarAliases checks whether a & b are same scalar
func typesIdenticalOrScalarAliases(a, b reflect.Type) bool {
	return a == b || (a.Kind() == b.Kind() && (a.Kind() != reflect.Struct) && (a.Kind() != reflect.Map) && isScalarType(a))
}

func getScalarSpecifiedByURL(typ reflect.Type) string {
	scalarsMu.RLock()
	defer scalarsMu.RUnlock()
	if url, ok := scalarSpecifiedByURLs[typ]; ok {
		return url
	}
	return ""
}

// ID is the graphql ID scalar
type ID struct {
	Value string
}

// MarshalJSON implements JSON Marshalling used to generate the output
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, string(id.Value)), nil
}

//Timestamp handles the time
type Timestamp timestamp.Timestamp

//Duration handles the duration
type Duration duration.Duration
