package users

import (
	"net/http"

	"go.appointy.com/sdlkit"
	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/graphql"
	"go.appointy.com/sdlkit/schemabuilder"
)

// BuildSchema builds the federated users schema backed by dir.
func BuildSchema(dir *Directory) (*graphql.Schema, error) {
	sb := schemabuilder.NewSchema()
	if err := RegisterSchema(sb, dir); err != nil {
		return nil, err
	}
	return sb.Build(schemabuilder.WithHooks(federation.NewHooks()))
}

// NewHandler returns the handler serving the users subgraph SDL and its
// introspection result.
func NewHandler(dir *Directory, opts ...sdlkit.HandlerOption) (http.Handler, error) {
	schema, err := BuildSchema(dir)
	if err != nil {
		return nil, err
	}
	return sdlkit.HTTPHandler(schema, opts...), nil
}
