package federation_test

import (
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/graphql"
	"go.appointy.com/sdlkit/hooks"
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/sdl"
	"go.appointy.com/sdlkit/snapshot"
)

type Product struct {
	Upc   string
	Name  string
	Price int32
}

func helloWorld() *schemabuilder.Schema {
	sb := schemabuilder.NewSchema()
	sb.Query().FieldFunc("helloWorld", func(args struct{ Name *string }) string {
		return "Hello, World!"
	})
	return sb
}

func TestFederatedHelloWorld(t *testing.T) {
	schema, err := helloWorld().Build(schemabuilder.WithHooks(federation.NewHooks()))
	require.NoError(t, err)

	got := strings.TrimSpace(sdl.Print(schema))
	if got != snapshot.FederatedSchema {
		t.Errorf("unexpected SDL (-want +got):\n%s", diff.Diff(snapshot.FederatedSchema, got))
	}

	// Without entities there is nothing to resolve through _entities.
	require.NotContains(t, got, "_entities")
	require.NotContains(t, got, "_Entity")
}

func TestFederatedEntities(t *testing.T) {
	sb := helloWorld()
	product := sb.Object("Product", Product{})
	product.Directive(federation.Key("upc"))
	sb.Query().FieldFunc("topProducts", func() []*Product { return nil })

	schema, err := sb.Build(schemabuilder.WithHooks(federation.NewHooks()))
	require.NoError(t, err)

	out := sdl.Print(schema)
	require.Contains(t, out, "type Product @key(fields : \"upc\") {\n")
	require.Contains(t, out, "  _entities(representations: [_Any!]!): [_Entity]!\n")
	require.Contains(t, out, "  _service: _Service!\n")
	require.Contains(t, out, "union _Entity = Product")
	require.Contains(t, out, "scalar _Any")
	require.Contains(t, out, "type _Service {\n  sdl: String!\n}")
}

func TestFederatedNestedKey(t *testing.T) {
	sb := helloWorld()
	product := sb.Object("Product", Product{})
	product.Directive(federation.Key("upc name { first }"))
	sb.Query().FieldFunc("product", func() *Product { return nil })

	_, err := sb.Build(schemabuilder.WithHooks(federation.NewHooks()))
	require.NoError(t, err)
}

func TestFederatedKeyErrors(t *testing.T) {
	for name, fields := range map[string]string{
		"unknown field": "sku",
		"empty":         "  ",
	} {
		t.Run(name, func(t *testing.T) {
			sb := helloWorld()
			product := sb.Object("Product", Product{})
			product.Directive(federation.Key(fields))
			sb.Query().FieldFunc("product", func() *Product { return nil })

			_, err := sb.Build(schemabuilder.WithHooks(federation.NewHooks()))
			require.Error(t, err)
			require.Contains(t, err.Error(), "Product")
		})
	}
}

func TestFederatedReservedService(t *testing.T) {
	sb := helloWorld()
	sb.Query().FieldFunc("_service", func() string { return "" })

	_, err := sb.Build(schemabuilder.WithHooks(federation.NewHooks()))
	require.Error(t, err)
}

func TestFederatedDirectiveConflict(t *testing.T) {
	schema := &graphql.Schema{
		Query:      &graphql.Object{Name: "Query"},
		Directives: graphql.BuiltInDirectives(),
	}
	schema.AddDirective(&graphql.DirectiveDefinition{
		Name:      "key",
		Locations: []graphql.DirectiveLocation{graphql.LocationObject},
	})

	err := federation.NewHooks().WillBuildSchema(schema)
	require.Error(t, err)
	require.Contains(t, err.Error(), "@key")
}

func TestProviderRegistered(t *testing.T) {
	provider, err := hooks.Lookup(federation.ProviderCoordinate + ":7.0.0")
	require.NoError(t, err)

	h, ok := provider.Hooks().(*federation.Hooks)
	require.True(t, ok)
	require.Equal(t, federation.LinkURL, h.LinkURL)
	require.Equal(t, federation.DefaultImports, h.Imports)
}
