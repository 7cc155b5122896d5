package graphql

// CollectTypes returns every named type reachable from the schema roots, the
// schema's extra types and the arguments of declared directives, keyed by name.
func CollectTypes(schema *Schema) map[string]NamedType {
	types := make(map[string]NamedType)
	if schema.Query != nil {
		collectTypes(schema.Query, types)
	}
	if schema.Mutation != nil {
		collectTypes(schema.Mutation, types)
	}
	if schema.Subscription != nil {
		collectTypes(schema.Subscription, types)
	}
	for _, typ := range schema.Types {
		collectTypes(typ, types)
	}
	for _, d := range schema.Directives {
		for _, arg := range d.Args {
			collectTypes(arg.Type, types)
		}
	}
	return types
}

func collectTypes(typ Type, types map[string]NamedType) {
	switch typ := typ.(type) {
	case *Object:
		if _, ok := types[typ.Name]; ok {
			return
		}
		types[typ.Name] = typ

		for _, field := range typ.Fields {
			collectTypes(field.Type, types)

			for _, arg := range field.Args {
				collectTypes(arg.Type, types)
			}
		}
		for _, iface := range typ.Interfaces {
			collectTypes(iface, types)
		}

	case *Union:
		if _, ok := types[typ.Name]; ok {
			return
		}
		types[typ.Name] = typ
		for _, member := range typ.Types {
			collectTypes(member, types)
		}

	case *Interface:
		if _, ok := types[typ.Name]; ok {
			return
		}
		types[typ.Name] = typ

		for _, field := range typ.Fields {
			collectTypes(field.Type, types)

			for _, arg := range field.Args {
				collectTypes(arg.Type, types)
			}
		}
		for _, object := range typ.Types {
			collectTypes(object, types)
		}

	case *List:
		collectTypes(typ.Type, types)

	case *NonNull:
		collectTypes(typ.Type, types)

	case *Scalar:
		if _, ok := types[typ.Name]; ok {
			return
		}
		types[typ.Name] = typ

	case *Enum:
		if _, ok := types[typ.Name]; ok {
			return
		}
		types[typ.Name] = typ

	case *InputObject:
		if _, ok := types[typ.Name]; ok {
			return
		}
		types[typ.Name] = typ

		for _, field := range typ.Fields {
			collectTypes(field.Type, types)
		}
	}
}
