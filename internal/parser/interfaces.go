package parser

import "github.com/toyz/relay/internal/models"

// AnnotationParser defines the interface for parsing Go source files and extracting client metadata
type AnnotationParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
}

var _ AnnotationParser = (*Parser)(nil)
