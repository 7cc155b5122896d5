package users

import (
	"context"

	"github.com/pkg/errors"

	"go.appointy.com/sdlkit/schemabuilder"
)

// RegisterMutations registers createUser.
func RegisterMutations(sb *schemabuilder.Schema, dir *Directory) {
	sb.Mutation().FieldFunc("createUser", func(ctx context.Context, args struct {
		Input CreateUserInput `graphql:"input"`
	}) (*User, error) {
		if err := Validate(args.Input); err != nil {
			return nil, err
		}
		return dir.Create(args.Input), nil
	})
}

// Validate checks a createUser input.
func Validate(in CreateUserInput) error {
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.Email == "" {
		return errors.New("email is required")
	}
	switch in.Role {
	case "", RoleAdmin, RoleMember, RoleGuest:
	default:
		return errors.Errorf("unknown role %q", in.Role)
	}
	return nil
}
