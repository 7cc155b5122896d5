package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/introspection"
)

func newIntrospectCmd(root *rootOptions) *cobra.Command {
	var (
		endpoint string
		headers  []string
		timeouts introspection.TimeoutConfig
		output   string
	)
	cmd := &cobra.Command{
		Use:   "introspect-schema",
		Short: "Fetch the schema of a running GraphQL server and print it as SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpoint == "" {
				return errors.New("--endpoint is required")
			}
			h, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			root.logger.WithField("endpoint", endpoint).Debug("introspecting schema")
			schema, err := introspection.IntrospectSchema(cmd.Context(), endpoint, h, timeouts)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), schema)
				return err
			}
			if err := os.WriteFile(output, []byte(schema), 0o644); err != nil {
				return errors.Wrap(err, "writing schema")
			}
			root.logger.WithField("output", output).Info("schema written")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&endpoint, "endpoint", "", "GraphQL endpoint URL")
	fs.StringArrayVar(&headers, "header", nil, "request header as name=value, repeatable")
	fs.DurationVar(&timeouts.Connect, "connect-timeout", introspection.DefaultTimeouts.Connect, "connection timeout")
	fs.DurationVar(&timeouts.Read, "read-timeout", introspection.DefaultTimeouts.Read, "response timeout")
	fs.StringVar(&output, "output", "", "file to write the SDL to (default: stdout)")
	return cmd
}

func parseHeaders(in []string) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for _, h := range in {
		name, value, ok := strings.Cut(h, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("invalid header %q: want name=value", h)
		}
		out[name] = value
	}
	return out, nil
}
