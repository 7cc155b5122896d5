// Package hooks is the registry of schema generator hook providers.
//
// A provider is looked up by the dependency coordinate a build descriptor
// declares in its generator scope, e.g.
// "com.expediagroup:graphql-kotlin-federated-hooks-provider:7.0.0". Providers
// register themselves from init, the way database/sql drivers do:
//
//	import _ "go.appointy.com/sdlkit/federation"
package hooks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"go.appointy.com/sdlkit/schemabuilder"
)

// Provider supplies the hooks applied while generating a schema.
type Provider interface {
	Hooks() schemabuilder.Hooks
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() schemabuilder.Hooks

// Hooks implements Provider.
func (f ProviderFunc) Hooks() schemabuilder.Hooks { return f() }

// Coordinate is a Maven style dependency coordinate.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// ParseCoordinate parses "group:artifact[:version]".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, errors.Errorf("invalid dependency coordinate %q: want group:artifact:version", s)
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			return Coordinate{}, errors.Errorf("invalid dependency coordinate %q", s)
		}
	}
	c := Coordinate{Group: parts[0], Artifact: parts[1]}
	if len(parts) == 3 {
		c.Version = parts[2]
	}
	return c, nil
}

// Key identifies the artifact regardless of its version.
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

func (c Coordinate) String() string {
	if c.Version == "" {
		return c.Key()
	}
	return fmt.Sprintf("%s:%s:%s", c.Group, c.Artifact, c.Version)
}

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a provider available under the group:artifact of
// coordinate. It panics if called twice for the same artifact or if provider
// is nil.
func Register(coordinate string, provider Provider) {
	c, err := ParseCoordinate(coordinate)
	if err != nil {
		panic(err)
	}
	if provider == nil {
		panic("hooks: Register provider is nil")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := providers[c.Key()]; dup {
		panic("hooks: Register called twice for provider " + c.Key())
	}
	providers[c.Key()] = provider
}

// Lookup returns the provider registered for dependency. The version part of
// the coordinate is ignored.
func Lookup(dependency string) (Provider, error) {
	c, err := ParseCoordinate(dependency)
	if err != nil {
		return nil, err
	}

	mu.RLock()
	defer mu.RUnlock()
	p, ok := providers[c.Key()]
	if !ok {
		return nil, errors.Errorf("no hooks provider registered for %s", c.Key())
	}
	return p, nil
}

// Providers returns the registered group:artifact keys, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	keys := make([]string, 0, len(providers))
	for k := range providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
