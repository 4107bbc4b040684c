package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/relay/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	module string
	root   string
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{}
}

// ResolveModuleName finds the module for startDir. customModule, when set,
// replaces the path declared in go.mod; it also works without a go.mod, in
// which case packages are placed relative to the working directory.
func (r *ModuleResolver) ResolveModuleName(customModule, startDir string) (string, error) {
	mod, err := utils.LoadGoMod(startDir)
	switch {
	case err == nil:
		r.root = mod.Dir
		r.module = mod.ModulePath
	case customModule == "":
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	default:
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		r.root = wd
	}

	if customModule != "" {
		r.module = customModule
	}
	return r.module, nil
}

// ModuleName returns the resolved module path
func (r *ModuleResolver) ModuleName() string {
	return r.module
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(packageDir string) (string, error) {
	if r.module == "" {
		return "", fmt.Errorf("module name has not been resolved")
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}
	relPath, err := filepath.Rel(r.root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return r.module, nil
	}
	if importPath == ".." || filepath.IsAbs(relPath) || len(importPath) > 2 && importPath[:3] == "../" {
		return "", fmt.Errorf("package %s is outside module %s", packageDir, r.module)
	}
	return r.module + "/" + importPath, nil
}
