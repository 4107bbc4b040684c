package cli

import (
	"os"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/utils"
)

// Cleaner removes generated client files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
	dryRun        bool
}

// NewCleaner creates a cleaner for files named outputFile. A dry run only
// reports what would be removed.
func NewCleaner(outputFile string, dryRun bool) *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(outputFile),
		dryRun:        dryRun,
	}
}

// CleanGeneratedFiles removes the generated files found under patterns and
// returns their paths. Files without the relay header are never touched.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	files, err := c.fileProcessor.FindGeneratedFiles(patterns)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to find generated files", err)
	}
	if c.dryRun {
		return files, nil
	}

	removed := make([]string, 0, len(files))
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removed, errors.WrapFileSystemError("remove", file, err)
		}
		removed = append(removed, file)
	}
	return removed, nil
}
