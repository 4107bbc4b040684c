package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedHeader is the first line of every file relay writes
const GeneratedHeader = "// Code generated by relay. DO NOT EDIT."

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileProcessor finds source directories and generated files
type FileProcessor struct {
	outputFile string
	files      FileFilter
	dirs       DirectoryFilter
}

// NewFileProcessor creates a processor that treats outputFile as generated
func NewFileProcessor(outputFile string) *FileProcessor {
	return &FileProcessor{
		outputFile: outputFile,
		files:      SourceFileFilter(outputFile),
		dirs:       DefaultDirectoryFilter(),
	}
}

// SourceFileFilter accepts .go files that are neither tests nor the generated output
func SourceFileFilter(outputFile string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != outputFile
	}
}

// DefaultDirectoryFilter skips hidden, vendored and build directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// SplitPattern turns a Go-style "dir/..." pattern into its base directory
// and whether it is recursive
func SplitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}

// ScanDirectories returns the directories matched by patterns that hold Go
// source files, each listed once in discovery order
func (fp *FileProcessor) ScanDirectories(patterns []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, pattern := range patterns {
		base, recursive := SplitPattern(pattern)
		info, err := os.Stat(base)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("failed to scan %s: not a directory", pattern)
		}

		dirs, err := fp.scan(base, recursive, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scan(dir string, recursive bool, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var packageDirs []string
	for _, entry := range entries {
		if fp.files(filepath.Join(dir, entry.Name()), entry) {
			packageDirs = append(packageDirs, dir)
			break
		}
	}
	if !recursive {
		return packageDirs, nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() || !fp.dirs(path, entry) {
			continue
		}
		sub, err := fp.scan(path, true, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, sub...)
	}
	return packageDirs, nil
}

// HasGoFiles reports whether dir holds any Go source file
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if fp.files(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}
	return false, nil
}

// FindGeneratedFiles lists the output files under patterns that carry the
// relay header. Files with the same name written by hand are left out.
func (fp *FileProcessor) FindGeneratedFiles(patterns []string) ([]string, error) {
	var found []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		base, recursive := SplitPattern(pattern)
		err := filepath.WalkDir(base, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				// unreadable entries are not ours to clean
				return nil
			}
			if entry.IsDir() {
				if path != base && (!recursive || !fp.dirs(path, entry)) {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.Name() != fp.outputFile || seen[path] {
				return nil
			}
			generated, err := IsGeneratedFile(path)
			if err != nil {
				return err
			}
			if generated {
				seen[path] = true
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
	}
	return found, nil
}

// IsGeneratedFile reports whether the first line of path is the relay header
func IsGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()) == GeneratedHeader, nil
}
