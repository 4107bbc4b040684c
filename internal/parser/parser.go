package parser

import (
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/relay/internal/annotations"
	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
	"github.com/toyz/relay/internal/uritemplate"
)

// Parser implements the AnnotationParser interface
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(annotations.DefaultRegistry()),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	if err := p.processFiles(metadata, []string{filename}, map[string]*ast.File{filename: file}); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ParseDirectory scans the .go files of one directory, test files excluded,
// and extracts every annotated client interface.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	filter := func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}
	pkgs, err := parser.ParseDir(p.fileSet, path, filter, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapFileSystemError("parse", path, err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found in directory %s", path)
	}

	var pkg *ast.Package
	var packageName string
	for name, parsed := range pkgs {
		pkg = parsed
		packageName = name
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}

	names := make([]string, 0, len(pkg.Files))
	for name := range pkg.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := p.processFiles(metadata, names, pkg.Files); err != nil {
		return nil, err
	}
	return metadata, nil
}

// processFiles walks the files in order and fills metadata. Every diagnostic
// of the package is collected before failing.
func (p *Parser) processFiles(metadata *models.PackageMetadata, names []string, files map[string]*ast.File) error {
	multi := errors.NewMultipleErrors()
	seenImports := make(map[models.ImportSpec]bool)

	for _, name := range names {
		file := files[name]
		if ast.IsGenerated(file) {
			continue
		}

		clients := p.extractClients(file, multi)
		if len(clients) == 0 {
			continue
		}
		metadata.Clients = append(metadata.Clients, clients...)

		for _, imp := range file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				continue
			}
			spec := models.ImportSpec{Path: path}
			if imp.Name != nil {
				spec.Name = imp.Name.Name
			}
			if !seenImports[spec] {
				seenImports[spec] = true
				metadata.Imports = append(metadata.Imports, spec)
			}
		}
	}

	return multi.ErrOrNil()
}

// extractClients finds //relay::client interfaces in declaration order
func (p *Parser) extractClients(file *ast.File, multi *errors.MultipleErrors) []models.ClientMetadata {
	var clients []models.ClientMetadata

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			typeSpec := spec.(*ast.TypeSpec)

			doc := typeSpec.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			anns := p.parseComments(doc, multi)
			if !hasClientMarker(anns, multi) {
				continue
			}

			loc := p.location(typeSpec.Pos())
			iface, ok := typeSpec.Type.(*ast.InterfaceType)
			if !ok {
				multi.Add(errors.NewInvalidAnnotation("//relay::client",
					fmt.Errorf("%s is not an interface", typeSpec.Name.Name), loc))
				continue
			}
			if typeSpec.TypeParams != nil {
				multi.Add(errors.NewInvalidSignature(typeSpec.Name.Name, "generic client interfaces are not supported", loc))
				continue
			}

			client := models.NewClientMetadata(typeSpec.Name.Name, loc)
			if iface.Methods == nil {
				clients = append(clients, client)
				continue
			}
			for _, field := range iface.Methods.List {
				ft, ok := field.Type.(*ast.FuncType)
				if !ok || len(field.Names) == 0 {
					multi.Add(errors.NewInvalidSignature(embeddedName(field.Type), "embedded interfaces are not supported", p.location(field.Pos())))
					continue
				}
				endpoint, err := p.buildEndpoint(field.Names[0].Name, ft, field.Doc, p.location(field.Pos()))
				if err != nil {
					addAll(multi, err)
					continue
				}
				client.Endpoints = append(client.Endpoints, endpoint)
			}
			clients = append(clients, client)
		}
	}

	return clients
}

// buildEndpoint runs extraction, descriptor parsing, signature analysis,
// parameter classification and template compilation for one method.
func (p *Parser) buildEndpoint(name string, ft *ast.FuncType, doc *ast.CommentGroup, loc errors.SourceLocation) (models.Endpoint, error) {
	endpoint := models.Endpoint{Name: name, Location: loc}
	multi := errors.NewMultipleErrors()

	anns := p.parseComments(doc, multi)

	method, err := ExtractMetadata(name, anns, loc)
	if err != nil {
		addAll(multi, err)
		return endpoint, multi
	}

	if endpoint.Request, err = ParseRequest(method.Request); err != nil {
		addAll(multi, err)
	}
	if endpoint.Expect, err = ParseExpect(method.Expect); err != nil {
		addAll(multi, err)
	}

	endpoint.Signature, err = AnalyzeSignature(name, ft, loc)
	if err != nil {
		addAll(multi, err)
		return endpoint, multi
	}

	endpoint.Params, err = ClassifyParameters(name, endpoint.Signature.Params, method.Roles)
	if err != nil {
		locate(err, loc)
		addAll(multi, err)
	}

	if !multi.IsEmpty() {
		return endpoint, multi
	}

	if _, err := uritemplate.Compile(endpoint.Request.PathTemplate, endpoint.Params.ValueNames()); err != nil {
		locate(err, method.Request.Location)
		addAll(multi, err)
		return endpoint, multi
	}

	return endpoint, nil
}

// parseComments parses the relay annotations of a comment group, reporting
// malformed ones and skipping ordinary comments.
func (p *Parser) parseComments(doc *ast.CommentGroup, multi *errors.MultipleErrors) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}
	var anns []*annotations.ParsedAnnotation
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		a, err := p.annotations.Parse(c.Text, p.location(c.Pos()))
		if err != nil {
			addAll(multi, err)
			continue
		}
		anns = append(anns, a)
	}
	return anns
}

// hasClientMarker reports whether anns contain //relay::client. Any other
// annotation on a type is misplaced.
func hasClientMarker(anns []*annotations.ParsedAnnotation, multi *errors.MultipleErrors) bool {
	found := false
	for _, a := range anns {
		if a.Type == annotations.ClientAnnotation {
			found = true
			continue
		}
		multi.Add(errors.NewInvalidAnnotation(a.Raw,
			fmt.Errorf("%s annotation is only allowed on interface methods", a.Name), a.Location))
	}
	return found
}

func (p *Parser) location(pos token.Pos) errors.SourceLocation {
	position := p.fileSet.Position(pos)
	return errors.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

func embeddedName(expr ast.Expr) string {
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	if sel, ok := expr.(*ast.SelectorExpr); ok {
		return sel.Sel.Name
	}
	return "embedded"
}

// addAll flattens err into multi
func addAll(multi *errors.MultipleErrors, err error) {
	var nested *errors.MultipleErrors
	if stderrors.As(err, &nested) {
		for _, e := range nested.Errors {
			multi.Add(e)
		}
		return
	}
	var relayErr errors.RelayError
	if stderrors.As(err, &relayErr) {
		multi.Add(relayErr)
		return
	}
	multi.Add(errors.Wrap(errors.UnknownErrorCode, err.Error(), err))
}

// locate fills in loc on every diagnostic in err that has none
func locate(err error, loc errors.SourceLocation) {
	var nested *errors.MultipleErrors
	if stderrors.As(err, &nested) {
		for _, e := range nested.Errors {
			locate(e, loc)
		}
		return
	}
	var base *errors.BaseError
	if stderrors.As(err, &base) && base.Loc.IsEmpty() {
		base.WithLocation(loc)
	}
}
