package users

import "go.appointy.com/sdlkit/schemabuilder"

// RegisterEnums registers Role.
func RegisterEnums(sb *schemabuilder.Schema) {
	sb.Enum(RoleMember, map[string]interface{}{
		"ADMIN":  RoleAdmin,
		"MEMBER": RoleMember,
		"GUEST":  RoleGuest,
	}, "Access level of a user")
}
