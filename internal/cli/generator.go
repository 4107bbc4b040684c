package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/generator"
	"github.com/toyz/relay/internal/models"
	"github.com/toyz/relay/internal/openapi"
	"github.com/toyz/relay/internal/parser"
	"github.com/toyz/relay/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	config         Config
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.AnnotationParser
	codeGenerator  generator.CodeGenerator
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	ClientsGenerated  int
	EndpointsFound    int
	GeneratedFiles    []string
	RemovedFiles      []string
	OpenAPIFile       string
}

// NewGenerator creates a new CLI generator
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		config:         config,
		scanner:        NewDirectoryScanner(config.Output),
		moduleResolver: NewModuleResolver(),
		parser:         parser.NewParser(),
		codeGenerator: generator.NewGenerator(
			generator.WithOutputFile(config.Output),
			generator.WithRelayImport(config.RelayImport),
		),
		diagnostics: diagnostics,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run scans, parses and generates every package. Problems in one package do
// not stop the others; all of them are returned together.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	d := g.diagnostics

	d.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	d.Debug("Scanning directories: %v", g.config.Directories)

	startDir := "."
	if len(g.config.Directories) > 0 {
		startDir, _ = utils.SplitPattern(g.config.Directories[0])
	}
	moduleName, err := g.moduleResolver.ResolveModuleName(g.config.Module, startDir)
	if err != nil {
		d.Warn("Import paths unavailable: %v", err)
	} else {
		d.Verbose("Resolved module name: %s", moduleName)
	}

	d.PhaseHeader("Scanning")
	packageDirs, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "no Go packages found in specified directories").
			WithContext("directories", g.config.Directories).
			WithSuggestions(
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use the './...' pattern",
			)
	}
	d.PhaseItem(fmt.Sprintf("Found %d packages to process", len(packageDirs)))
	g.summary.PackagesProcessed = len(packageDirs)

	d.PhaseHeader("Generating")
	multi := errors.NewMultipleErrors()
	var described []*models.PackageMetadata
	for _, dir := range packageDirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		metadata, err := g.processPackage(dir, moduleName)
		if err != nil {
			addError(multi, err)
			continue
		}
		if metadata != nil {
			described = append(described, metadata)
		}
	}

	if g.config.OpenAPI.File != "" && multi.IsEmpty() {
		if err := g.writeOpenAPI(described); err != nil {
			addError(multi, err)
		}
	}

	d.Verbose("Generation finished in %v", time.Since(startTime).Round(time.Millisecond))
	return multi.ErrOrNil()
}

// processPackage generates one package. It returns the metadata of packages
// that declare clients.
func (g *Generator) processPackage(dir, moduleName string) (*models.PackageMetadata, error) {
	d := g.diagnostics

	metadata, err := g.parser.ParseDirectory(dir)
	if err != nil {
		return nil, err
	}
	if moduleName != "" {
		if importPath, err := g.moduleResolver.BuildPackagePath(dir); err == nil {
			metadata.ImportPath = importPath
		}
	}

	if !metadata.HasClients() {
		d.Verbose("Skipping %s (no clients)", dir)
		return nil, g.removeStale(dir)
	}

	file, err := g.codeGenerator.Generate(metadata)
	if err != nil {
		return nil, err
	}

	d.PhaseProgress("Writing " + file.FilePath)
	if err := os.WriteFile(file.FilePath, []byte(file.Content), 0o644); err != nil {
		return nil, errors.WrapFileSystemError("write", file.FilePath, err)
	}

	g.summary.ClientsGenerated += len(metadata.Clients)
	g.summary.EndpointsFound += metadata.EndpointCount()
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	d.Indent()
	for _, client := range file.Clients {
		d.List("%s", client)
	}
	d.Unindent()
	return metadata, nil
}

// removeStale deletes a generated file left behind by a package that no
// longer declares clients
func (g *Generator) removeStale(dir string) error {
	path := filepath.Join(dir, g.config.Output)
	generated, err := utils.IsGeneratedFile(path)
	if os.IsNotExist(err) || (err == nil && !generated) {
		return nil
	}
	if err != nil {
		return errors.WrapFileSystemError("read", path, err)
	}
	if err := os.Remove(path); err != nil {
		return errors.WrapFileSystemError("remove", path, err)
	}
	g.diagnostics.PhaseProgress("Removed stale " + path)
	g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
	return nil
}

func (g *Generator) writeOpenAPI(packages []*models.PackageMetadata) error {
	cfg := g.config.OpenAPI
	doc, err := openapi.Build(packages, openapi.Options{
		Title:   cfg.Title,
		Version: cfg.Version,
		Servers: cfg.Servers,
	})
	if err != nil {
		return err
	}
	data, err := openapi.Marshal(doc, cfg.File)
	if err != nil {
		return errors.WrapGenerateError("OpenAPI document", err)
	}
	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapFileSystemError("create directory for", cfg.File, err)
		}
	}
	g.diagnostics.PhaseProgress("Writing " + cfg.File)
	if err := os.WriteFile(cfg.File, data, 0o644); err != nil {
		return errors.WrapFileSystemError("write", cfg.File, err)
	}
	g.summary.OpenAPIFile = cfg.File
	return nil
}

// addError flattens err into multi
func addError(multi *errors.MultipleErrors, err error) {
	switch e := err.(type) {
	case *errors.MultipleErrors:
		for _, inner := range e.Errors {
			multi.Add(inner)
		}
	case errors.RelayError:
		multi.Add(e)
	default:
		multi.Add(errors.Wrap(errors.UnknownErrorCode, err.Error(), nil))
	}
}
