package generator

import (
	"bytes"
	"path/filepath"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
	"github.com/toyz/relay/internal/templates"
	"github.com/toyz/relay/internal/utils"
)

// DefaultRelayImport is the import path of the runtime package
const DefaultRelayImport = "github.com/toyz/relay/pkg/relay"

// Generator implements the CodeGenerator interface
type Generator struct {
	templates   *templates.TemplateRegistry
	relayImport string
	outputFile  string
}

// Option configures a Generator
type Option func(*Generator)

// WithOutputFile sets the name of the generated file inside each package
func WithOutputFile(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.outputFile = name
		}
	}
}

// WithRelayImport sets the import path generated code uses for the runtime
func WithRelayImport(path string) Option {
	return func(g *Generator) {
		if path != "" {
			g.relayImport = path
		}
	}
}

// WithTemplates replaces the template registry
func WithTemplates(registry *templates.TemplateRegistry) Option {
	return func(g *Generator) {
		if registry != nil {
			g.templates = registry
		}
	}
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		templates:   templates.DefaultTemplateRegistry,
		relayImport: DefaultRelayImport,
		outputFile:  models.DefaultOutputFile,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputFile returns the name of the generated file
func (g *Generator) OutputFile() string {
	return g.outputFile
}

// Generate renders the client file for a package. A package without clients
// yields a nil file. Problems with any method are collected and returned
// together; no file is produced for the package then.
func (g *Generator) Generate(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, errors.New(errors.GenerationErrorCode, "metadata cannot be nil")
	}
	if !metadata.HasClients() {
		return nil, nil
	}

	multi := errors.NewMultipleErrors()
	data := templates.FileData{PackageName: metadata.PackageName}
	var names []string
	for _, client := range metadata.Clients {
		clientData, err := templates.NewClientData(client)
		if err != nil {
			addError(multi, err)
			continue
		}
		data.Clients = append(data.Clients, clientData)
		names = append(names, client.StructName)
	}
	if err := multi.ErrOrNil(); err != nil {
		return nil, err
	}

	data.Imports = g.imports(metadata).GenerateImports()

	filePath := filepath.Join(metadata.PackagePath, g.outputFile)

	var buf bytes.Buffer
	if err := g.templates.Execute(&buf, templates.FileTemplate, data); err != nil {
		return nil, err
	}

	formatted, err := utils.FormatGoCode(filePath, buf.Bytes())
	if err != nil {
		return nil, errors.WrapGenerateError(filePath, err).
			WithContext("source", buf.String())
	}

	return &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
		Clients:     names,
	}, nil
}

// imports collects everything the generated file may refer to: the runtime
// and the standard packages of the method bodies, plus every import of the
// source files for the types in method signatures. Unused ones are removed
// when the file is formatted.
func (g *Generator) imports(metadata *models.PackageMetadata) *templates.ImportManager {
	im := templates.NewImportManager()
	im.AddImport("context")
	im.AddImport("fmt")
	im.AddImport("net/http")
	im.AddImport(g.relayImport)

	for _, spec := range metadata.Imports {
		// the runtime is always imported under its own name
		if spec.Path == g.relayImport || spec.Name == "relay" ||
			(spec.Name == "" && templates.AssumedName(spec.Path) == "relay") {
			continue
		}
		im.AddSpecs([]models.ImportSpec{spec})
	}
	return im
}

func addError(multi *errors.MultipleErrors, err error) {
	if re, ok := err.(errors.RelayError); ok {
		multi.Add(re)
		return
	}
	multi.Add(errors.WrapGenerateError("client", err))
}
