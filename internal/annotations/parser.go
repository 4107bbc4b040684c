package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/relay/internal/errors"
)

// annotationAST is the grammar root for one //relay:: line
type annotationAST struct {
	Name string    `parser:"'//' 'relay' '::' @Ident"`
	Args []*argAST `parser:"@@*"`
}

type argAST struct {
	String *string  `parser:"  @String"`
	Path   *string  `parser:"| @Path"`
	Int    *string  `parser:"| @Int"`
	Ref    []string `parser:"| @Ident ( '.' @Ident )*"`
}

func (a *argAST) toArg() Arg {
	switch {
	case a.String != nil:
		return Arg{Kind: StringArg, Value: *a.String}
	case a.Path != nil:
		return Arg{Kind: PathArg, Value: *a.Path}
	case a.Int != nil:
		return Arg{Kind: IntArg, Value: *a.Int}
	default:
		return Arg{Kind: RefArg, Value: strings.Join(a.Ref, ".")}
	}
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser turns raw comment text into ParsedAnnotation values
type Parser struct {
	parser   *participle.Parser[annotationAST]
	registry AnnotationRegistry
}

// NewParser creates a parser that classifies names through the given registry
func NewParser(registry AnnotationRegistry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{
		parser: participle.MustBuild[annotationAST](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
		registry: registry,
	}
}

// IsAnnotation reports whether a comment is a relay annotation at all.
// Both "//relay::get" and "// relay::get" qualify.
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(comment)
	if !strings.HasPrefix(text, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(text[2:]), Prefix)
}

// Parse parses one annotation comment. Lines the grammar rejects are
// InvalidAnnotation diagnostics and unrecognised names are UnknownAnnotation.
func (p *Parser) Parse(comment string, loc SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimSpace(comment)
	if !IsAnnotation(text) {
		return nil, errors.NewInvalidAnnotation(text, nil, loc).
			WithSuggestion("Annotations start with //" + Prefix)
	}

	ast, err := p.parser.ParseString(loc.File, text)
	if err != nil {
		return nil, errors.NewInvalidAnnotation(text, err, loc)
	}

	schema, ok := p.registry.Lookup(ast.Name)
	if !ok {
		return nil, errors.NewUnknownAnnotation(ast.Name, loc)
	}

	parsed := &ParsedAnnotation{
		Type:     schema.Type,
		Name:     ast.Name,
		Args:     make([]Arg, 0, len(ast.Args)),
		Location: loc,
		Raw:      text,
	}
	for _, a := range ast.Args {
		parsed.Args = append(parsed.Args, a.toArg())
	}
	return parsed, nil
}

// Schema returns the schema registered for the annotation's type
func (p *Parser) Schema(a *ParsedAnnotation) (AnnotationSchema, error) {
	return p.registry.GetSchema(a.Type)
}
