package users

import (
	"reflect"
	"sync"

	"go.appointy.com/sdlkit/schemabuilder"
)

// Email is an address in the WHATWG valid e-mail address form.
type Email string

// EmailSpecification is the @specifiedBy URL of the Email scalar.
const EmailSpecification = "https://html.spec.whatwg.org/#valid-e-mail-address"

var (
	scalarsOnce sync.Once
	scalarsErr  error
)

// RegisterScalars exposes Email as its own scalar instead of String.
func RegisterScalars() error {
	scalarsOnce.Do(func() {
		scalarsErr = schemabuilder.RegisterScalar(reflect.TypeOf(Email("")), "Email", EmailSpecification)
	})
	return scalarsErr
}
