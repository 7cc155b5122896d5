package users

import (
	"sync"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"

	"go.appointy.com/sdlkit/schemabuilder"
)

// User is the entity the subgraph owns, keyed by id.
type User struct {
	ID              schemabuilder.ID         `graphql:"id"`
	Name            string                   `graphql:"name"`
	Email           Email                    `graphql:"email"`
	Age             int32                    `graphql:"age,deprecated=Use birthYear"`
	BirthYear       *int32                   `graphql:"birthYear"`
	ReputationScore float64                  `graphql:"reputation,description=Community score between 0 and 10"`
	IsActive        bool                     `graphql:"isActive"`
	Role            Role                     `graphql:"role"`
	CreatedAt       *schemabuilder.Timestamp `graphql:"createdAt"`
}

// Role is the access level of a user.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleGuest  Role = "GUEST"
)

// CreateUserInput is the argument of createUser.
type CreateUserInput struct {
	Name      string `graphql:"name"`
	Email     Email  `graphql:"email"`
	Age       int32  `graphql:"age,optional,deprecated=Use birthYear"`
	BirthYear *int32 `graphql:"birthYear"`
	Role      Role   `graphql:"role"`
}

// Directory is the in-memory user store behind the resolvers.
type Directory struct {
	mu    sync.RWMutex
	users []*User
}

// NewDirectory returns a directory seeded with one admin.
func NewDirectory() *Directory {
	return &Directory{
		users: []*User{
			{
				ID:              schemabuilder.ID{Value: "u1"},
				Name:            "John Doe",
				Email:           "jdoe@example.com",
				Age:             30,
				ReputationScore: 9.5,
				IsActive:        true,
				Role:            RoleAdmin,
				CreatedAt:       now(),
			},
		},
	}
}

func now() *schemabuilder.Timestamp {
	return (*schemabuilder.Timestamp)(timestamppb.Now())
}

// Get returns the user with id, or nil.
func (d *Directory) Get(id string) *User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID.Value == id {
			return u
		}
	}
	return nil
}

// All returns every user in creation order.
func (d *Directory) All() []*User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*User, len(d.users))
	copy(out, d.users)
	return out
}

// Create adds a user built from in and returns it.
func (d *Directory) Create(in CreateUserInput) *User {
	u := &User{
		ID:        schemabuilder.ID{Value: uuid.NewString()},
		Name:      in.Name,
		Email:     in.Email,
		Age:       in.Age,
		BirthYear: in.BirthYear,
		IsActive:  true,
		Role:      in.Role,
		CreatedAt: now(),
	}
	if u.Role == "" {
		u.Role = RoleMember
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, u)
	return u
}
