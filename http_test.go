package sdlkit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	"go.appointy.com/sdlkit"
	"go.appointy.com/sdlkit/introspection"
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/snapshot"
)

func testHTTPRequest(req *http.Request, opts ...sdlkit.HandlerOption) *httptest.ResponseRecorder {
	schema := schemabuilder.NewSchema()

	query := schema.Query()
	query.FieldFunc("helloWorld", func(args struct{ Name *string }) string {
		return "Hello, World!"
	})

	builtSchema := schema.MustBuild()

	rr := httptest.NewRecorder()
	handler := sdlkit.HTTPHandler(builtSchema, opts...)

	handler.ServeHTTP(rr, req)
	return rr
}

func TestHTTPServesSDLOnGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rr := testHTTPRequest(req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Equal(t, snapshot.DefaultSchema, strings.TrimSpace(rr.Body.String()))
}

func TestHTTPMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/graphql", nil)
	rr := testHTTPRequest(req)

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Equal(t, "GET, HEAD, POST", rr.Header().Get("Allow"))
}

func TestHTTPMustHaveQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":""}`))
	rr := testHTTPRequest(req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}
	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"request must include a query"}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPRejectsNonIntrospection(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ helloWorld }"}`))
	rr := testHTTPRequest(req)

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"only introspection queries are supported"}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPRootSelections(t *testing.T) {
	for name, tc := range map[string]struct {
		query, operation, err string
	}{
		"schema only":         {query: "{ __schema { queryType { name } } }"},
		"fragment spread":     {query: "query Q { ...Root } fragment Root on Query { __schema { types { name } } }"},
		"inline fragment":     {query: "{ ... on Query { __schema { types { name } } } }"},
		"named operation":     {query: "query A { helloWorld } query B { __schema { types { name } } }", operation: "B"},
		"mixed with a field":  {query: "{ __schema { types { name } } helloWorld }", err: sdlkit.ErrUnsupportedQuery.Error()},
		"type lookup":         {query: `{ __type(name: "Query") { name } }`, err: sdlkit.ErrUnsupportedQuery.Error()},
		"aliased schema":      {query: "{ s: __schema { types { name } } }", err: sdlkit.ErrUnsupportedQuery.Error()},
		"mutation":            {query: "mutation { __schema { types { name } } }", err: sdlkit.ErrUnsupportedQuery.Error()},
		"unknown fragment":    {query: "{ ...Missing }", err: sdlkit.ErrUnsupportedQuery.Error()},
		"unknown operation":   {query: "query A { __schema { types { name } } }", operation: "B", err: `unknown operation "B"`},
		"ambiguous operation": {query: "query A { __schema { types { name } } } query B { __schema { types { name } } }", err: "operationName is required when the document has several operations"},
		"syntax error":        {query: "{ __schema { ", err: "any"},
	} {
		t.Run(name, func(t *testing.T) {
			body, err := json.Marshal(sdlkit.Request{Query: tc.query, OperationName: tc.operation})
			require.NoError(t, err)
			rr := testHTTPRequest(httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body))))

			var resp struct {
				Data   *introspection.Result `json:"data"`
				Errors []struct {
					Message string `json:"message"`
				} `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

			if tc.err == "" {
				require.Empty(t, resp.Errors)
				require.NotNil(t, resp.Data)
				require.Equal(t, "Query", resp.Data.Schema.QueryType.Name)
				return
			}
			require.Nil(t, resp.Data)
			require.Len(t, resp.Errors, 1)
			if tc.err != "any" {
				require.Equal(t, tc.err, resp.Errors[0].Message)
			}
		})
	}
}

func TestHTTPIntrospection(t *testing.T) {
	body, err := json.Marshal(map[string]string{"query": introspection.IntrospectionQuery})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	rr := testHTTPRequest(req)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Data   introspection.Result `json:"data"`
		Errors []interface{}        `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Empty(t, resp.Errors)
	require.Equal(t, "Query", resp.Data.Schema.QueryType.Name)
	require.Nil(t, resp.Data.Schema.MutationType)

	query := resp.Data.Schema.Type("Query")
	require.NotNil(t, query)
	require.Len(t, query.Fields, 1)
	require.Equal(t, "helloWorld", query.Fields[0].Name)
	require.Equal(t, "NON_NULL", query.Fields[0].Type.Kind)
}

func TestHTTPMiddlewares(t *testing.T) {
	var order []string
	tag := func(name string) sdlkit.MiddlewareFunc {
		return func(next sdlkit.HandlerFunc) sdlkit.HandlerFunc {
			return func(ctx context.Context, req *sdlkit.Request) (interface{}, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}
	var variables map[string]interface{}
	capture := func(next sdlkit.HandlerFunc) sdlkit.HandlerFunc {
		return func(ctx context.Context, req *sdlkit.Request) (interface{}, error) {
			variables = sdlkit.ExtractVariables(ctx)
			return next(ctx, req)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/graphql",
		strings.NewReader(`{"query":"{ __schema { queryType { name } } }","variables":{"a":1}}`))
	rr := testHTTPRequest(req, sdlkit.WithMiddlewares(tag("first"), tag("second")), sdlkit.WithMiddlewares(capture))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{"first", "second"}, order)
	require.Equal(t, map[string]interface{}{"a": float64(1)}, variables)
}
