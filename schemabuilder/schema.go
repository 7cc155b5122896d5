// Package schemabuilder generates a graphql.Schema from Go types.
//
// Objects are registered with their Go type and a set of field functions. The
// builder walks the functions with reflection, derives argument and result
// types and returns a schema ready to be printed as SDL.
package schemabuilder

import (
	"fmt"
	"reflect"
	"sort"
)

// Schema is a struct that can be used to build out a GraphQL schema. Functions
// can be registered against the "Mutation" and "Query" objects in order to
// build out a full GraphQL schema.
type Schema struct {
	objects      map[string]*Object
	inputObjects map[string]*InputObject
	enumTypes    map[reflect.Type]*EnumMapping
}

// InputObject names a Go struct used as an argument type.
type InputObject struct {
	Name        string
	Description string
	Type        interface{}
}

// A root object used to create the top level Query and Mutation types.
type query struct{}
type mutation struct{}

// NewSchema creates a new schema.
func NewSchema() *Schema {
	return &Schema{
		objects:      make(map[string]*Object),
		inputObjects: make(map[string]*InputObject),
		enumTypes:    make(map[reflect.Type]*EnumMapping),
	}
}

// Enum registers an enumType in the schema. The val should be any arbitrary
// value of the enumType to be used for reflection, and the enumMap should be
// the corresponding map of the enums.
//
// For example a enum could be declared as follows:
//
//	type enumType int32
//	const (
//		one   enumType = 1
//		two   enumType = 2
//		three enumType = 3
//	)
//
// Then the Enum can be registered as:
//
//	s.Enum(enumType(1), map[string]interface{}{
//		"one":   enumType(1),
//		"two":   enumType(2),
//		"three": enumType(3),
//	})
func (s *Schema) Enum(val interface{}, enumMap interface{}, desc ...string) {
	typ := reflect.TypeOf(val)
	if s.enumTypes == nil {
		s.enumTypes = make(map[reflect.Type]*EnumMapping)
	}

	eMap, rMap := getEnumMap(enumMap, typ)
	d := ""
	if len(desc) > 0 {
		d = desc[0]
	}
	s.enumTypes[typ] = &EnumMapping{Map: eMap, ReverseMap: rMap, Description: d}
}

func getEnumMap(enumMap interface{}, typ reflect.Type) (map[string]interface{}, map[interface{}]string) {
	rMap := make(map[interface{}]string)
	eMap := make(map[string]interface{})
	v := reflect.ValueOf(enumMap)
	if v.Kind() != reflect.Map {
		panic("enum map must be a map")
	}
	for _, key := range v.MapKeys() {
		val := v.MapIndex(key)
		valInterface := val.Interface()
		if reflect.TypeOf(valInterface).Kind() != typ.Kind() {
			panic("enum types are not equal")
		}
		if key.Kind() != reflect.String {
			panic("keys are not strings")
		}
		eMap[key.String()] = valInterface
		rMap[valInterface] = key.String()
	}
	return eMap, rMap
}

// Object registers a struct as a GraphQL Object in our Schema. We'll read the
// fields of the struct to determine it's basic "Fields" and we'll return an
// Object struct that we can use to register custom relationships and fields on
// the object.
func (s *Schema) Object(name string, typ interface{}, desc ...string) *Object {
	if object, ok := s.objects[name]; ok {
		if reflect.TypeOf(object.Type) != reflect.TypeOf(typ) {
			panic(fmt.Sprintf("re-registered object %s with a different type", name))
		}
		return object
	}
	d := ""
	if len(desc) > 0 {
		d = desc[0]
	}
	object := &Object{
		Name:        name,
		Description: d,
		Type:        typ,
	}
	s.objects[name] = object
	return object
}

// InputObject registers a struct used in arguments under name. Structs that are
// not registered are exposed under their Go type name.
func (s *Schema) InputObject(name string, typ interface{}, desc ...string) *InputObject {
	if input, ok := s.inputObjects[name]; ok {
		if reflect.TypeOf(input.Type) != reflect.TypeOf(typ) {
			panic(fmt.Sprintf("re-registered input object %s with a different type", name))
		}
		return input
	}
	d := ""
	if len(desc) > 0 {
		d = desc[0]
	}
	input := &InputObject{Name: name, Description: d, Type: typ}
	s.inputObjects[name] = input
	return input
}

// Query returns an Object struct that we can use to register all the top level
// graphql query functions we'd like to expose.
func (s *Schema) Query() *Object {
	return s.Object("Query", query{})
}

// Mutation returns an Object struct that we can use to register all the top level
// graphql mutations functions we'd like to expose. The Mutation type is only
// part of the built schema when at least one field is registered on it.
func (s *Schema) Mutation() *Object {
	return s.Object("Mutation", mutation{})
}

// objectNames returns the registered object names in a stable order.
func (s *Schema) objectNames() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
