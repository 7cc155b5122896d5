package introspection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go.appointy.com/sdlkit/sdl"
)

// TimeoutConfig bounds the two phases of an introspection request.
type TimeoutConfig struct {
	// Connect is the dial timeout.
	Connect time.Duration
	// Read bounds the wait for the response, headers and body included.
	Read time.Duration
}

// DefaultTimeouts are used for zero fields of TimeoutConfig.
var DefaultTimeouts = TimeoutConfig{
	Connect: 5 * time.Second,
	Read:    15 * time.Second,
}

func (c TimeoutConfig) withDefaults() TimeoutConfig {
	if c.Connect <= 0 {
		c.Connect = DefaultTimeouts.Connect
	}
	if c.Read <= 0 {
		c.Read = DefaultTimeouts.Read
	}
	return c
}

// Client runs the introspection query against a GraphQL endpoint.
type Client struct {
	Endpoint string
	Headers  map[string]string
	Timeouts TimeoutConfig
	Options  Options

	// HTTPClient overrides the client built from Timeouts.
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

type request struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
}

type response struct {
	Data   *Result `json:"data"`
	Errors Errors  `json:"errors"`
}

// Error is a single entry of a GraphQL errors list.
type Error struct {
	Message string `json:"message"`
}

// Errors is returned by Fetch when the server answers with GraphQL errors.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// StatusError is returned by Fetch for a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("introspection request failed with HTTP %d: %s", e.StatusCode, e.Body)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	t := c.Timeouts.withDefaults()
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: t.Connect}).DialContext
	transport.TLSHandshakeTimeout = t.Connect
	transport.ResponseHeaderTimeout = t.Read
	return &http.Client{Transport: transport, Timeout: t.Connect + t.Read}
}

// Fetch posts the introspection query and returns the decoded __schema.
func (c *Client) Fetch(ctx context.Context) (*Schema, error) {
	if c.Endpoint == "" {
		return nil, errors.New("introspection endpoint is required")
	}

	body, err := json.Marshal(request{Query: Query(c.Options), OperationName: "IntrospectionQuery"})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "invalid introspection endpoint")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	logger := c.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("endpoint", c.Endpoint).Debug("running introspection query")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "introspection request to %s", c.Endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading introspection response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decoding introspection response")
	}
	if len(out.Errors) > 0 {
		return nil, out.Errors
	}
	if out.Data == nil {
		return nil, errors.New("introspection response has no data")
	}
	return &out.Data.Schema, nil
}

// IntrospectSchema fetches the schema served at endpoint and prints it as SDL.
func IntrospectSchema(ctx context.Context, endpoint string, headers map[string]string, timeouts TimeoutConfig) (string, error) {
	c := &Client{Endpoint: endpoint, Headers: headers, Timeouts: timeouts}
	result, err := c.Fetch(ctx)
	if err != nil {
		return "", err
	}
	schema, err := ToSchema(result)
	if err != nil {
		return "", errors.Wrap(err, "converting introspection result")
	}
	return sdl.Print(schema), nil
}
