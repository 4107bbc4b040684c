package annotations

import "fmt"

// ArgSpec describes one positional argument of an annotation
type ArgSpec struct {
	Name        string
	Kinds       []ArgKind
	Required    bool
	Description string
}

// Accepts reports whether the argument kind is allowed in this position
func (s ArgSpec) Accepts(kind ArgKind) bool {
	for _, k := range s.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// AnnotationSchema defines the positional shape of an annotation
type AnnotationSchema struct {
	Type        AnnotationType
	Names       []string // annotation names classified as Type
	Description string
	Args        []ArgSpec
	Examples    []string
}

// MaxArgs returns the number of positional arguments the annotation takes at most
func (s AnnotationSchema) MaxArgs() int {
	return len(s.Args)
}

// MinArgs returns the number of leading required arguments
func (s AnnotationSchema) MinArgs() int {
	n := 0
	for _, a := range s.Args {
		if !a.Required {
			break
		}
		n++
	}
	return n
}

var contentTypeArg = ArgSpec{
	Name:        "content-type",
	Kinds:       []ArgKind{StringArg, RefArg},
	Description: "Media type literal or a Go constant such as relay.ApplicationJSON",
}

// ClientAnnotationSchema marks an interface for client generation
var ClientAnnotationSchema = AnnotationSchema{
	Type:        ClientAnnotation,
	Names:       []string{"client"},
	Description: "Marks an interface as an HTTP client description",
	Examples:    []string{"//relay::client"},
}

// RequestAnnotationSchema covers the nine verb annotations
var RequestAnnotationSchema = AnnotationSchema{
	Type:        RequestAnnotation,
	Names:       Verbs,
	Description: "Declares the HTTP verb, URI template and request content type of a method",
	Args: []ArgSpec{
		{
			Name:        "path",
			Kinds:       []ArgKind{StringArg, PathArg},
			Description: "URI template with {name} placeholders, defaults to /",
		},
		contentTypeArg,
	},
	Examples: []string{
		`//relay::get "/api/user/{id}?age={age}"`,
		`//relay::post /api/user relay.ApplicationJSON`,
		`//relay::put "/api/user/{id}" "application/xml"`,
	},
}

// ExpectAnnotationSchema declares the expected response
var ExpectAnnotationSchema = AnnotationSchema{
	Type:        ExpectAnnotation,
	Names:       []string{"expect"},
	Description: "Declares the expected status code and response content type",
	Args: []ArgSpec{
		{
			Name:        "status",
			Kinds:       []ArgKind{IntArg, RefArg},
			Description: "Status code literal or a constant such as http.StatusCreated, defaults to 200",
		},
		contentTypeArg,
	},
	Examples: []string{
		"//relay::expect 201",
		`//relay::expect 200 "application/json"`,
		"//relay::expect http.StatusNoContent relay.TextPlain",
	},
}

// ValueAnnotationSchema binds a parameter to a URI template variable
var ValueAnnotationSchema = AnnotationSchema{
	Type:        ValueAnnotation,
	Names:       []string{"value"},
	Description: "Binds a parameter to a URI template variable, optionally under another name",
	Args: []ArgSpec{
		{Name: "param", Kinds: []ArgKind{RefArg}, Required: true, Description: "Parameter name"},
		{Name: "rename", Kinds: []ArgKind{RefArg}, Description: "Template variable name"},
	},
	Examples: []string{"//relay::value userID uid"},
}

// HeaderAnnotationSchema binds a parameter to a request header
var HeaderAnnotationSchema = AnnotationSchema{
	Type:        HeaderAnnotation,
	Names:       []string{"header"},
	Description: "Sends a parameter as a request header",
	Args: []ArgSpec{
		{Name: "param", Kinds: []ArgKind{RefArg}, Required: true, Description: "Parameter name"},
		{Name: "name", Kinds: []ArgKind{StringArg, RefArg}, Required: true, Description: "Header name literal or constant"},
	},
	Examples: []string{
		`//relay::header token "X-Token"`,
		"//relay::header auth headers.Authorization",
	},
}

// BodyAnnotationSchema marks the request body parameter
var BodyAnnotationSchema = AnnotationSchema{
	Type:        BodyAnnotation,
	Names:       []string{"body"},
	Description: "Sends a parameter as the encoded request body",
	Args: []ArgSpec{
		{Name: "param", Kinds: []ArgKind{RefArg}, Required: true, Description: "Parameter name"},
	},
	Examples: []string{"//relay::body user"},
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ClientAnnotationSchema,
		RequestAnnotationSchema,
		ExpectAnnotationSchema,
		ValueAnnotationSchema,
		HeaderAnnotationSchema,
		BodyAnnotationSchema,
	}
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}
	return nil
}
