package cli

import (
	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/utils"
)

// DirectoryScanner finds the packages to generate clients for
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a scanner that ignores outputFile when looking for sources
func NewDirectoryScanner(outputFile string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(outputFile),
	}
}

// ScanDirectories returns the directories holding Go source files.
// Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	dirs, err := s.fileProcessor.ScanDirectories(patterns)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan directories", err).
			WithContext("directories", patterns).
			WithSuggestions(
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
			)
	}
	return dirs, nil
}
