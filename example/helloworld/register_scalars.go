package helloworld

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"go.appointy.com/sdlkit/schemabuilder"
)

// UUIDSpecification is the @specifiedBy URL of the UUID scalar.
const UUIDSpecification = "https://tools.ietf.org/html/rfc4122"

var (
	scalarsOnce sync.Once
	scalarsErr  error
)

// RegisterScalars exposes uuid.UUID as the UUID scalar. Scalars are process
// wide, so registration happens once.
func RegisterScalars() error {
	scalarsOnce.Do(func() {
		scalarsErr = schemabuilder.RegisterScalar(reflect.TypeOf(uuid.UUID{}), "UUID", UUIDSpecification)
	})
	return scalarsErr
}
