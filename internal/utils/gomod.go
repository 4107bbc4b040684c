package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// GoModFile is the parsed go.mod that owns a directory
type GoModFile struct {
	Path       string // location of the go.mod file
	Dir        string // module root directory
	ModulePath string
}

// ParseModuleName extracts the module path from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	path := modfile.ModulePath(content)
	if path == "" {
		// ModulePath is lenient; a full parse reports the syntax error if there is one
		if _, err := modfile.Parse(cleanPath, content, nil); err != nil {
			return "", fmt.Errorf("failed to parse go.mod file: %w", err)
		}
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}
	return path, nil
}

// FindGoModFile searches for go.mod starting at startDir and walking up
func FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}

// LoadGoMod finds and parses the go.mod owning startDir
func LoadGoMod(startDir string) (*GoModFile, error) {
	path, err := FindGoModFile(startDir)
	if err != nil {
		return nil, err
	}
	modulePath, err := ParseModuleName(path)
	if err != nil {
		return nil, err
	}
	return &GoModFile{Path: path, Dir: filepath.Dir(path), ModulePath: modulePath}, nil
}

// ImportPath returns the import path of packageDir inside the module
func (m *GoModFile) ImportPath(packageDir string) (string, error) {
	abs, err := filepath.Abs(packageDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return m.ModulePath, nil
	}
	if rel == ".." || len(rel) > 2 && rel[:3] == "../" {
		return "", fmt.Errorf("%s is outside module %s", packageDir, m.ModulePath)
	}
	return m.ModulePath + "/" + rel, nil
}
