package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/sirupsen/logrus"

	"go.appointy.com/sdlkit"
	"go.appointy.com/sdlkit/example/helloworld"
	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/graphql"
	"go.appointy.com/sdlkit/internal/logging"
	"go.appointy.com/sdlkit/schemabuilder"
	"go.appointy.com/sdlkit/snapshot"
)

// buildSchema builds the hello world schema, federated when asked to.
func buildSchema(flags snapshot.TemplateFlags, hooks ...schemabuilder.Hooks) (*graphql.Schema, error) {
	sb := schemabuilder.NewSchema()
	if err := helloworld.RegisterSchema(sb, flags); err != nil {
		return nil, err
	}
	return sb.Build(schemabuilder.WithHooks(hooks...))
}

// logRequests logs every query reaching the handler.
func logRequests(logger logrus.FieldLogger) sdlkit.MiddlewareFunc {
	return func(next sdlkit.HandlerFunc) sdlkit.HandlerFunc {
		return func(ctx context.Context, req *sdlkit.Request) (interface{}, error) {
			logger.WithField("operation", req.OperationName).Debug("graphql request")
			return next(ctx, req)
		}
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	federated := flag.Bool("federated", false, "serve the federated schema")
	customScalars := flag.Bool("custom-scalars", false, "add the UUID scalar")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	logger := logging.NewLogger(*verbose)

	var hooks []schemabuilder.Hooks
	if *federated {
		hooks = append(hooks, federation.NewHooks())
	}
	schema, err := buildSchema(snapshot.TemplateFlags{CustomScalarsEnabled: *customScalars}, hooks...)
	if err != nil {
		logger.WithError(err).Fatal("building schema")
	}

	// GET /graphql returns the SDL, POST answers introspection queries.
	http.Handle("/graphql", sdlkit.HTTPHandler(schema, sdlkit.WithMiddlewares(logRequests(logger))))

	logger.WithField("addr", *addr).Info("server running")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
