package introspection_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gographql "github.com/graphql-go/graphql"
	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"go.appointy.com/sdlkit"
	"go.appointy.com/sdlkit/example/helloworld"
	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/graphql"
	"go.appointy.com/sdlkit/introspection"
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/sdl"
	"go.appointy.com/sdlkit/snapshot"
)

func helloWorldServer(t *testing.T, flags snapshot.TemplateFlags, hooks ...schemabuilder.Hooks) *httptest.Server {
	sb := schemabuilder.NewSchema()
	require.NoError(t, helloworld.RegisterSchema(sb, flags))
	schema, err := sb.Build(schemabuilder.WithHooks(hooks...))
	require.NoError(t, err)

	server := httptest.NewServer(sdlkit.HTTPHandler(schema))
	t.Cleanup(server.Close)
	return server
}

func TestIntrospectSchemaRoundTrip(t *testing.T) {
	server := helloWorldServer(t, snapshot.TemplateFlags{})

	got, err := introspection.IntrospectSchema(context.Background(), server.URL, nil, introspection.TimeoutConfig{})
	require.NoError(t, err)
	if got := strings.TrimSpace(got); got != snapshot.DefaultSchema {
		t.Errorf("unexpected SDL (-want +got):\n%s", diff.Diff(snapshot.DefaultSchema, got))
	}
}

// withoutSchemaDirectives drops the applied directives of the schema
// definition, which introspection does not carry.
func withoutSchemaDirectives(sdl string) string {
	_, rest, _ := strings.Cut(sdl, "\n")
	return "schema {\n" + rest
}

func TestIntrospectFederatedSchema(t *testing.T) {
	server := helloWorldServer(t, snapshot.TemplateFlags{}, federation.NewHooks())

	got, err := introspection.IntrospectSchema(context.Background(), server.URL, nil, introspection.DefaultTimeouts)
	require.NoError(t, err)
	want := withoutSchemaDirectives(snapshot.FederatedSchema)
	if got := strings.TrimSpace(got); got != want {
		t.Errorf("unexpected SDL (-want +got):\n%s", diff.Diff(want, got))
	}
}

func TestToSchemaCustomScalar(t *testing.T) {
	name := func(s string) *string { return &s }
	desc := "Federation type representing set of fields"

	schema, err := introspection.ToSchema(&introspection.Schema{
		QueryType: &introspection.TypeName{Name: "Query"},
		Types: []introspection.FullType{
			{Kind: "OBJECT", Name: "Query", Fields: []introspection.Field{
				{Name: "fields", Type: introspection.TypeRef{Kind: "SCALAR", Name: name("FieldSet")}},
				{Name: "name", Type: introspection.TypeRef{Kind: "SCALAR", Name: name("String")}},
			}},
			{Kind: "SCALAR", Name: "FieldSet", Description: desc},
			{Kind: "SCALAR", Name: "String"},
		},
	})
	require.NoError(t, err)

	fieldSet, ok := schema.Types["FieldSet"].(*graphql.Scalar)
	require.True(t, ok)
	require.NotNil(t, fieldSet)
	require.Equal(t, desc, fieldSet.Description)
	require.Same(t, graphql.String, schema.Query.Fields["name"].Type)
	require.Contains(t, sdl.Print(schema), "\"Federation type representing set of fields\"\nscalar FieldSet")
}

func TestFetchSpecifiedByURL(t *testing.T) {
	server := helloWorldServer(t, snapshot.TemplateFlags{CustomScalarsEnabled: true})

	c := &introspection.Client{Endpoint: server.URL, Options: introspection.FullOptions}
	result, err := c.Fetch(context.Background())
	require.NoError(t, err)

	uuid := result.Type("UUID")
	require.NotNil(t, uuid)
	require.NotNil(t, uuid.SpecifiedByURL)
	require.Equal(t, helloworld.UUIDSpecification, *uuid.SpecifiedByURL)

	schema, err := introspection.ToSchema(result)
	require.NoError(t, err)
	out := sdl.Print(schema)
	require.Contains(t, out, `scalar UUID @specifiedBy(url : "https://tools.ietf.org/html/rfc4122")`)
	require.Contains(t, out, "  randomUUID: UUID!\n")
}

func TestQueryOptions(t *testing.T) {
	plain := introspection.Query(introspection.Options{})
	require.Equal(t, introspection.IntrospectionQuery, plain)
	require.NotContains(t, plain, "isRepeatable")
	require.NotContains(t, plain, "specifiedByURL")
	require.NotContains(t, plain, "args(includeDeprecated: true)")

	full := introspection.Query(introspection.FullOptions)
	require.Contains(t, full, "isRepeatable")
	require.Contains(t, full, "specifiedByURL")
	require.Contains(t, full, "inputFields(includeDeprecated: true)")
	require.Contains(t, full, "defaultValue\n\tisDeprecated\n\tdeprecationReason\n}")
}

func TestSchemaRoundTrip(t *testing.T) {
	reason := "Use SUSPENDED"
	node := &graphql.Interface{Name: "Node", Description: "Has an id", Fields: map[string]*graphql.Field{
		"id": {Name: "id", Type: &graphql.NonNull{Type: graphql.ID}},
	}}
	user := &graphql.Object{
		Name:       "User",
		Interfaces: map[string]*graphql.Interface{"Node": node},
		Fields: map[string]*graphql.Field{
			"id":   {Name: "id", Type: &graphql.NonNull{Type: graphql.ID}},
			"name": {Name: "name", Type: graphql.String, IsDeprecated: true},
		},
	}
	node.Types = map[string]*graphql.Object{"User": user}
	status := &graphql.Enum{Name: "Status", Values: []*graphql.EnumValue{
		{Name: "ACTIVE", Description: "Can sign in"},
		{Name: "BANNED", IsDeprecated: true, DeprecationReason: &reason},
	}}
	filter := &graphql.InputObject{Name: "Filter", Fields: map[string]*graphql.InputValue{
		"status": {Name: "status", Type: status},
		"legacy": {Name: "legacy", Type: graphql.Boolean, Directives: []*graphql.Directive{{
			Name: "deprecated",
			Args: []*graphql.DirectiveArg{{Name: "reason", Value: "Ignored"}},
		}}},
	}}
	query := &graphql.Object{Name: "Query"}
	query.AddField(&graphql.Field{
		Name: "users",
		Type: &graphql.NonNull{Type: &graphql.List{Type: &graphql.NonNull{Type: user}}},
		Args: []*graphql.InputValue{{Name: "filter", Type: filter}},
	})
	query.AddField(&graphql.Field{Name: "node", Type: node})
	orphan := &graphql.Union{Name: "Orphan", Types: map[string]*graphql.Object{"User": user}}

	original := &graphql.Schema{Query: query, Directives: graphql.BuiltInDirectives()}
	original.AddType(orphan)

	// Through JSON, the way a client sees it.
	raw, err := json.Marshal(introspection.FromSchema(original))
	require.NoError(t, err)
	var decoded introspection.Result
	require.NoError(t, json.Unmarshal(raw, &decoded))

	rebuilt, err := introspection.ToSchema(&decoded.Schema)
	require.NoError(t, err)

	want, got := sdl.Print(original), sdl.Print(rebuilt)
	if want != got {
		t.Errorf("round trip changed the schema (-want +got):\n%s", diff.Diff(want, got))
	}
	require.Contains(t, got, "union Orphan = User")
	require.Contains(t, got, `legacy: Boolean @deprecated(reason : "Ignored")`)
}

func TestToSchemaErrors(t *testing.T) {
	name := func(s string) *string { return &s }

	_, err := introspection.ToSchema(&introspection.Schema{})
	require.Error(t, err)

	_, err = introspection.ToSchema(&introspection.Schema{
		QueryType: &introspection.TypeName{Name: "Query"},
		Types: []introspection.FullType{{
			Kind: "OBJECT",
			Name: "Query",
			Fields: []introspection.Field{{
				Name: "missing",
				Type: introspection.TypeRef{Kind: "OBJECT", Name: name("Missing")},
			}},
		}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown type Missing")

	_, err = introspection.ToSchema(&introspection.Schema{
		QueryType: &introspection.TypeName{Name: "Query"},
		Types:     []introspection.FullType{{Kind: "SCALAR", Name: "Query"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not an object")
}

// graphqlGoServer serves an independent implementation so the client is not
// only tested against HTTPHandler.
func graphqlGoServer(t *testing.T) *httptest.Server {
	color := gographql.NewEnum(gographql.EnumConfig{
		Name: "Color",
		Values: gographql.EnumValueConfigMap{
			"RED":  &gographql.EnumValueConfig{Value: "RED"},
			"BLUE": &gographql.EnumValueConfig{Value: "BLUE", DeprecationReason: "Too sad"},
		},
	})
	query := gographql.NewObject(gographql.ObjectConfig{
		Name: "Query",
		Fields: gographql.Fields{
			"helloWorld": &gographql.Field{
				Type: gographql.NewNonNull(gographql.String),
				Args: gographql.FieldConfigArgument{
					"name": &gographql.ArgumentConfig{Type: gographql.String},
				},
				Resolve: func(p gographql.ResolveParams) (interface{}, error) {
					return "Hello, World!", nil
				},
			},
			"favourite": &gographql.Field{
				Type: color,
				Resolve: func(p gographql.ResolveParams) (interface{}, error) {
					return "RED", nil
				},
			},
			"legacy": &gographql.Field{
				Type:              gographql.Int,
				DeprecationReason: "Gone soon",
				Resolve: func(p gographql.ResolveParams) (interface{}, error) {
					return 1, nil
				},
			},
		},
	})
	schema, err := gographql.NewSchema(gographql.SchemaConfig{Query: query})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body struct {
			Query         string `json:"query"`
			OperationName string `json:"operationName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result := gographql.Do(gographql.Params{
			Schema:        schema,
			RequestString: body.Query,
			OperationName: body.OperationName,
			Context:       r.Context(),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestIntrospectSchemaFromGraphQLGo(t *testing.T) {
	server := graphqlGoServer(t)
	headers := map[string]string{"Authorization": "Bearer token"}

	got, err := introspection.IntrospectSchema(context.Background(), server.URL, headers, introspection.TimeoutConfig{})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(got, "schema {\n  query: Query\n}\n"), got)
	require.Contains(t, got, "type Query {\n"+
		"  favourite: Color\n"+
		"  helloWorld(name: String): String!\n"+
		"  legacy: Int @deprecated(reason : \"Gone soon\")\n"+
		"}")
	require.Contains(t, got, "enum Color {\n")
	require.Contains(t, got, "  BLUE @deprecated(reason : \"Too sad\")\n")
	require.Contains(t, got, "directive @include")
	require.NotContains(t, got, "__Schema")
	require.NotContains(t, got, "scalar String")
}

func TestFetchHTTPStatus(t *testing.T) {
	server := graphqlGoServer(t)

	_, err := introspection.IntrospectSchema(context.Background(), server.URL, nil, introspection.TimeoutConfig{})
	var status *introspection.StatusError
	require.ErrorAs(t, err, &status)
	require.Equal(t, http.StatusUnauthorized, status.StatusCode)
	require.Equal(t, "unauthorized", status.Body)
}

func TestFetchGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"introspection disabled"}]}`))
	}))
	defer server.Close()

	c := &introspection.Client{Endpoint: server.URL}
	_, err := c.Fetch(context.Background())
	var gqlErrs introspection.Errors
	require.ErrorAs(t, err, &gqlErrs)
	require.Equal(t, "graphql: introspection disabled", err.Error())
}

func TestFetchReadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := &introspection.Client{
		Endpoint: server.URL,
		Timeouts: introspection.TimeoutConfig{Connect: time.Second, Read: 50 * time.Millisecond},
	}
	start := time.Now()
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestFetchRequiresEndpoint(t *testing.T) {
	_, err := (&introspection.Client{}).Fetch(context.Background())
	require.Error(t, err)
}
