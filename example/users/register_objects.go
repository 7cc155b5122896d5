package users

import (
	"strings"

	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/schemabuilder"
)

// RegisterObjects registers User as a federated entity keyed by id.
func RegisterObjects(sb *schemabuilder.Schema) {
	user := sb.Object("User", User{}, "A registered account")
	user.Directive(federation.Key("id"))

	user.FieldFunc("displayName", func(u *User) string {
		return DisplayName(u)
	}, schemabuilder.FieldDesc("Name shown to other users"))
}

// DisplayName is the displayName resolver: the name, or the local part of the
// email when the name is blank.
func DisplayName(u *User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(string(u.Email), "@")
	return local
}
