package snapshot

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	// Bucket drivers for file:// and mem:// URLs.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const fixtureExt = ".graphql"

// FixtureStore keeps expected schemas in a blob bucket, one object per
// fixture named "<name>.graphql".
type FixtureStore struct {
	bucket *blob.Bucket
}

// OpenFixtureStore opens the bucket at url, e.g. "file:///srv/fixtures" or
// "mem://".
func OpenFixtureStore(ctx context.Context, url string) (*FixtureStore, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "opening fixture bucket %s", url)
	}
	return &FixtureStore{bucket: bucket}, nil
}

// NewFixtureStore wraps an open bucket. Close closes it.
func NewFixtureStore(bucket *blob.Bucket) *FixtureStore {
	return &FixtureStore{bucket: bucket}
}

// Get returns the fixture called name. Built-in fixture names are served
// from the bucket when present there and from the binary otherwise.
func (s *FixtureStore) Get(ctx context.Context, name string) (string, error) {
	b, err := s.bucket.ReadAll(ctx, name+fixtureExt)
	if err == nil {
		return string(b), nil
	}
	if gcerrors.Code(err) == gcerrors.NotFound {
		if text, builtinErr := FixtureByName(name); builtinErr == nil {
			return text, nil
		}
		return "", errors.Errorf("fixture %s not found", name)
	}
	return "", errors.Wrapf(err, "reading fixture %s", name)
}

// Put stores sdl as the fixture called name, normalized and newline
// terminated.
func (s *FixtureStore) Put(ctx context.Context, name, sdl string) error {
	opts := &blob.WriterOptions{ContentType: "application/graphql; charset=utf-8"}
	if err := s.bucket.WriteAll(ctx, name+fixtureExt, []byte(Normalize(sdl)+"\n"), opts); err != nil {
		return errors.Wrapf(err, "writing fixture %s", name)
	}
	return nil
}

// Seed writes the built-in fixtures that are not in the bucket yet.
func (s *FixtureStore) Seed(ctx context.Context) error {
	for name, text := range map[string]string{FixtureDefault: DefaultSchema, FixtureFederated: FederatedSchema} {
		exists, err := s.bucket.Exists(ctx, name+fixtureExt)
		if err != nil {
			return errors.Wrapf(err, "checking fixture %s", name)
		}
		if exists {
			continue
		}
		if err := s.Put(ctx, name, text); err != nil {
			return err
		}
	}
	return nil
}

// List returns the names of the stored fixtures, sorted.
func (s *FixtureStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing fixtures")
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, fixtureExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(obj.Key, fixtureExt))
	}
	sort.Strings(names)
	return names, nil
}

// Resolver adapts the store to ExpectedResolver.
func (s *FixtureStore) Resolver() ExpectedResolver {
	return s.Get
}

// Close closes the underlying bucket.
func (s *FixtureStore) Close() error {
	return s.bucket.Close()
}
