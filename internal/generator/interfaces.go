package generator

import "github.com/toyz/relay/internal/models"

// CodeGenerator turns the parsed clients of one package into a Go source file
type CodeGenerator interface {
	Generate(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}
