// Package sdlkit serves a built schema over HTTP: GET returns the SDL, POST
// answers introspection queries.
package sdlkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"go.appointy.com/sdlkit/graphql"
	"go.appointy.com/sdlkit/introspection"
	"go.appointy.com/sdlkit/sdl"
)

// ErrUnsupportedQuery is returned for queries selecting any root field other
// than __schema, including __type and fields of the served schema.
var ErrUnsupportedQuery = errors.New("only introspection queries are supported")

// Request is a decoded POST body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HandlerFunc answers a request with the value placed under "data".
type HandlerFunc func(ctx context.Context, req *Request) (interface{}, error)

// MiddlewareFunc wraps a HandlerFunc. Middlewares run in the order given.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
}

// WithMiddlewares appends middlewares to the handler chain.
func WithMiddlewares(m ...MiddlewareFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Middlewares = append(o.Middlewares, m...)
	}
}

// HTTPHandler serves schema. The SDL and introspection result are computed
// once, so schema must not change afterwards.
//
// POST only answers queries whose root selections are all __schema. The full
// introspection result is returned whatever the sub-selection; anything else,
// such as __type or a field of the schema, fails with ErrUnsupportedQuery.
func HTTPHandler(schema *graphql.Schema, opts ...HandlerOption) http.Handler {
	h := &httpHandler{
		sdl:    sdl.Print(schema),
		result: introspection.FromSchema(schema),
	}

	o := handlerOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	prev := h.execute
	for i := range o.Middlewares {
		prev = o.Middlewares[len(o.Middlewares)-1-i](prev)
	}
	h.exec = prev

	return h
}

type httpHandler struct {
	sdl    string
	result *introspection.Result

	exec HandlerFunc
}

type responseError struct {
	Message string `json:"message"`
}

type httpResponse struct {
	Data   interface{}     `json:"data"`
	Errors []responseError `json:"errors,omitempty"`
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponse := func(value interface{}, err error) {
		response := httpResponse{}
		if err != nil {
			response.Errors = []responseError{{Message: err.Error()}}
		} else {
			response.Data = value
		}

		responseJSON, err := json.Marshal(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write(responseJSON)
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(h.sdl))
		}
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if r.Body == nil {
		writeResponse(nil, errors.New("request must include a query"))
		return
	}

	var params Request
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeResponse(nil, err)
		return
	}
	if strings.TrimSpace(params.Query) == "" {
		writeResponse(nil, errors.New("request must include a query"))
		return
	}

	ctx := addVariables(r.Context(), params.Variables)

	output, err := h.exec(ctx, &params)
	writeResponse(output, err)
}

func (h *httpHandler) execute(_ context.Context, req *Request) (interface{}, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return nil, err
	}
	op, err := selectOperation(doc, req.OperationName)
	if err != nil {
		return nil, err
	}
	if op.Operation != ast.Query {
		return nil, ErrUnsupportedQuery
	}

	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, fragment := range doc.Fragments {
		fragments[fragment.Name] = fragment
	}
	if !selectsSchemaOnly(op.SelectionSet, fragments, map[string]bool{}) {
		return nil, ErrUnsupportedQuery
	}
	return h.result, nil
}

func selectOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, errors.New("operationName is required when the document has several operations")
		}
		return doc.Operations[0], nil
	}
	for _, op := range doc.Operations {
		if op.Name == name {
			return op, nil
		}
	}
	return nil, fmt.Errorf("unknown operation %q", name)
}

// selectsSchemaOnly reports whether every root field of set is an unaliased
// __schema, looking through fragments.
func selectsSchemaOnly(set ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visited map[string]bool) bool {
	if len(set) == 0 {
		return false
	}
	for _, selection := range set {
		switch node := selection.(type) {
		case *ast.Field:
			if node.Name != "__schema" || (node.Alias != "" && node.Alias != node.Name) {
				return false
			}
		case *ast.FragmentSpread:
			fragment := fragments[node.Name]
			if fragment == nil || visited[node.Name] {
				return false
			}
			visited[node.Name] = true
			ok := selectsSchemaOnly(fragment.SelectionSet, fragments, visited)
			delete(visited, node.Name)
			if !ok {
				return false
			}
		case *ast.InlineFragment:
			if !selectsSchemaOnly(node.SelectionSet, fragments, visited) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

type graphqlVariableKeyType int

const graphqlVariableKey graphqlVariableKeyType = 0

// ExtractVariables returns the variables received with the request. It is
// meant for middlewares.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	if v := ctx.Value(graphqlVariableKey); v != nil {
		return v.(map[string]interface{})
	}

	return nil
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return context.WithValue(ctx, graphqlVariableKey, v)
}
