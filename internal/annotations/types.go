package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/relay/internal/errors"
)

// Prefix is the marker every relay annotation comment starts with
const Prefix = "relay::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	UnknownAnnotation AnnotationType = iota
	ClientAnnotation
	RequestAnnotation
	ExpectAnnotation
	ValueAnnotation
	HeaderAnnotation
	BodyAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ClientAnnotation:
		return "client"
	case RequestAnnotation:
		return "request"
	case ExpectAnnotation:
		return "expect"
	case ValueAnnotation:
		return "value"
	case HeaderAnnotation:
		return "header"
	case BodyAnnotation:
		return "body"
	default:
		return "unknown"
	}
}

// IsParameterRole reports whether the annotation binds a method parameter
func (a AnnotationType) IsParameterRole() bool {
	return a == ValueAnnotation || a == HeaderAnnotation || a == BodyAnnotation
}

// Verbs lists the request annotation names in the order they are documented
var Verbs = []string{"get", "post", "put", "delete", "head", "options", "connect", "patch", "trace"}

// ParseAnnotationType classifies an annotation name. The nine verbs all map to
// RequestAnnotation; the verb itself stays in ParsedAnnotation.Name.
func ParseAnnotationType(name string) (AnnotationType, error) {
	switch name {
	case "client":
		return ClientAnnotation, nil
	case "get", "post", "put", "delete", "head", "options", "connect", "patch", "trace":
		return RequestAnnotation, nil
	case "expect":
		return ExpectAnnotation, nil
	case "value":
		return ValueAnnotation, nil
	case "header":
		return HeaderAnnotation, nil
	case "body":
		return BodyAnnotation, nil
	default:
		return UnknownAnnotation, fmt.Errorf("unknown annotation type: %s", name)
	}
}

// ArgKind is the lexical kind of a positional annotation argument
type ArgKind int

const (
	StringArg ArgKind = iota
	PathArg
	IntArg
	RefArg
)

// String returns the string representation of the argument kind
func (k ArgKind) String() string {
	switch k {
	case StringArg:
		return "string literal"
	case PathArg:
		return "path literal"
	case IntArg:
		return "integer literal"
	case RefArg:
		return "identifier"
	default:
		return "unknown"
	}
}

// Arg is one positional argument of an annotation
type Arg struct {
	Kind  ArgKind
	Value string // unquoted text for strings, the path, the digits, or the dotted reference
}

// IsLiteral reports whether the argument is a string or bare path
func (a Arg) IsLiteral() bool {
	return a.Kind == StringArg || a.Kind == PathArg
}

// IsIdent reports whether the argument is a single undotted identifier
func (a Arg) IsIdent() bool {
	return a.Kind == RefArg && !strings.Contains(a.Value, ".")
}

// Int returns the integer value of an IntArg
func (a Arg) Int() (int, error) {
	if a.Kind != IntArg {
		return 0, fmt.Errorf("argument %q is a %s, not an integer", a.Value, a.Kind)
	}
	return strconv.Atoi(a.Value)
}

// String renders the argument back in annotation syntax
func (a Arg) String() string {
	if a.Kind == StringArg {
		return strconv.Quote(a.Value)
	}
	return a.Value
}

// SourceLocation is shared with the diagnostics so annotation positions can be
// attached to errors directly.
type SourceLocation = errors.SourceLocation

// ParsedAnnotation represents one parsed //relay:: comment line
type ParsedAnnotation struct {
	Type     AnnotationType
	Name     string // annotation name as written, e.g. "get" or "header"
	Args     []Arg
	Location SourceLocation
	Raw      string
}

// Arg returns the i-th argument and whether it exists
func (p *ParsedAnnotation) Arg(i int) (Arg, bool) {
	if i < 0 || i >= len(p.Args) {
		return Arg{}, false
	}
	return p.Args[i], true
}

// Verb returns the upper-case HTTP method of a request annotation
func (p *ParsedAnnotation) Verb() string {
	if p.Type != RequestAnnotation {
		return ""
	}
	return strings.ToUpper(p.Name)
}

// Target returns the parameter a role annotation binds, or "" for other kinds
func (p *ParsedAnnotation) Target() string {
	if !p.Type.IsParameterRole() || len(p.Args) == 0 || !p.Args[0].IsIdent() {
		return ""
	}
	return p.Args[0].Value
}
