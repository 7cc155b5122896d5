package users

import "go.appointy.com/sdlkit/schemabuilder"

// RegisterInputs registers the argument types of the mutations.
func RegisterInputs(sb *schemabuilder.Schema) {
	sb.InputObject("CreateUserInput", CreateUserInput{}, "Fields of a new user")
}
