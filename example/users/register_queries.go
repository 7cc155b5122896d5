package users

import (
	"context"

	"github.com/pkg/errors"

	"go.appointy.com/sdlkit/schemabuilder"
)

// ErrNotFound is returned by user lookups that match nothing.
var ErrNotFound = errors.New("user not found")

// RegisterQueries registers me, user and allUsers.
func RegisterQueries(sb *schemabuilder.Schema, dir *Directory) {
	q := sb.Query()

	q.FieldFunc("me", func(ctx context.Context) (*User, error) {
		id, ok := ViewerFrom(ctx)
		if !ok {
			return nil, nil
		}
		return lookup(dir, id)
	}, schemabuilder.FieldDesc("The signed in user"))

	q.FieldFunc("user", func(ctx context.Context, args struct {
		ID schemabuilder.ID `graphql:"id"`
	}) (*User, error) {
		return lookup(dir, args.ID.Value)
	})

	q.FieldFunc("allUsers", func() []*User {
		return dir.All()
	})
}

func lookup(dir *Directory, id string) (*User, error) {
	u := dir.Get(id)
	if u == nil {
		return nil, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	return u, nil
}

type viewerKey struct{}

// WithViewer returns a context carrying the id of the signed in user.
func WithViewer(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, viewerKey{}, id)
}

// ViewerFrom returns the id stored by WithViewer.
func ViewerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(viewerKey{}).(string)
	return id, ok && id != ""
}
