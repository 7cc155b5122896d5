package users_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"go.appointy.com/sdlkit/example/users"
	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/introspection"
	"go.appointy.com/sdlkit/sdl"
	"go.appointy.com/sdlkit/snapshot"
)

func printSchema(t *testing.T) string {
	t.Helper()
	schema, err := users.BuildSchema(users.NewDirectory())
	require.NoError(t, err)
	return sdl.Print(schema)
}

func TestSchema(t *testing.T) {
	out := printSchema(t)

	for _, want := range []string{
		"\"A registered account\"\ntype User @key(fields : \"id\") {\n",
		"  age: Int! @deprecated(reason : \"Use birthYear\")\n",
		"  birthYear: Int\n",
		"  \"Name shown to other users\"\n  displayName: String!\n",
		"  email: Email!\n",
		"  id: ID!\n",
		"  \"Community score between 0 and 10\"\n  reputation: Float!\n",
		"  role: Role!\n",
		"  createdAt: Timestamp\n",
		"  \"The signed in user\"\n  me: User\n",
		"  user(id: ID!): User\n",
		"  allUsers: [User]!\n",
		"  createUser(input: CreateUserInput!): User\n",
		"\"Access level of a user\"\nenum Role {\n  ADMIN\n  GUEST\n  MEMBER\n}",
		"scalar Email @specifiedBy(url : \"" + users.EmailSpecification + "\")",
		"\"Fields of a new user\"\ninput CreateUserInput {\n",
		"union _Entity = User",
		"_entities(representations: [_Any!]!): [_Entity]!",
		"  mutation: Mutation\n",
	} {
		require.Contains(t, out, want)
	}
}

func TestServesSchema(t *testing.T) {
	h, err := users.NewHandler(users.NewDirectory())
	require.NoError(t, err)
	server := httptest.NewServer(h)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, printSchema(t), string(b))

	got, err := introspection.IntrospectSchema(context.Background(), server.URL, nil, introspection.DefaultTimeouts)
	require.NoError(t, err)
	// Applied directives are not part of introspection results.
	require.Contains(t, got, "type User {")
	require.Contains(t, got, "union _Entity = User")
	require.Contains(t, got, "createUser(input: CreateUserInput!): User")
}

func TestGeneratorScan(t *testing.T) {
	logger, _ := test.NewNullLogger()
	v := snapshot.NewVerifier(&snapshot.GeneratorRunner{Logger: logger}, logger)
	v.TempDir = t.TempDir()

	res, err := v.Run(context.Background(), snapshot.Case{
		Name:    "users",
		Dialect: snapshot.DialectKotlin,
		Descriptor: snapshot.Descriptor{
			Packages:        []string{"org.acme"},
			HooksDependency: federation.ProviderCoordinate + ":" + snapshot.DefaultPluginVersion,
		},
		Expected: printSchema(t),
	})
	require.NoError(t, err)
	require.Equal(t, snapshot.OutcomeSuccess, res.Outcome)

	// The users source set is invisible to the default com.example scan.
	_, err = v.Run(context.Background(), snapshot.Case{
		Name:     "users-default-scan",
		Dialect:  snapshot.DialectKotlin,
		Expected: printSchema(t),
	})
	require.Error(t, err)
}

func TestDirectory(t *testing.T) {
	dir := users.NewDirectory()
	require.Len(t, dir.All(), 1)
	require.Equal(t, "John Doe", dir.Get("u1").Name)
	require.Nil(t, dir.Get("missing"))

	u := dir.Create(users.CreateUserInput{Name: "Ann", Email: "ann@example.com"})
	require.NotEmpty(t, u.ID.Value)
	require.Equal(t, users.RoleMember, u.Role)
	require.True(t, u.IsActive)
	require.Same(t, u, dir.Get(u.ID.Value))
	require.Len(t, dir.All(), 2)
}

func TestValidate(t *testing.T) {
	require.NoError(t, users.Validate(users.CreateUserInput{Name: "Ann", Email: "a@b.c", Role: users.RoleGuest}))
	require.EqualError(t, users.Validate(users.CreateUserInput{Email: "a@b.c"}), "name is required")
	require.EqualError(t, users.Validate(users.CreateUserInput{Name: "Ann"}), "email is required")
	require.EqualError(t, users.Validate(users.CreateUserInput{Name: "Ann", Email: "a@b.c", Role: "ROOT"}), `unknown role "ROOT"`)
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Ann", users.DisplayName(&users.User{Name: " Ann "}))
	require.Equal(t, "ann", users.DisplayName(&users.User{Email: "ann@example.com"}))
}

func TestViewer(t *testing.T) {
	_, ok := users.ViewerFrom(context.Background())
	require.False(t, ok)

	id, ok := users.ViewerFrom(users.WithViewer(context.Background(), "u1"))
	require.True(t, ok)
	require.Equal(t, "u1", id)
}

func TestNotFound(t *testing.T) {
	err := errors.Wrapf(users.ErrNotFound, "id %q", "x")
	require.True(t, errors.Is(err, users.ErrNotFound))
	require.True(t, strings.HasSuffix(err.Error(), "user not found"))
}
