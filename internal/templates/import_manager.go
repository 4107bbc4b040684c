package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/relay/internal/models"
)

// ImportManager handles import generation and deduplication. One path may be
// imported under several names; imports that bind the same name to the same
// path collapse into one.
type ImportManager struct {
	imports map[importKey]models.ImportSpec
}

type importKey struct {
	name string
	path string
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{imports: make(map[importKey]models.ImportSpec)}
}

// AddImport adds an import without an alias
func (im *ImportManager) AddImport(importPath string) {
	im.AddPackageImport("", importPath)
}

// AddPackageImport adds an import with an alias. An alias equal to the
// package's own name is dropped.
func (im *ImportManager) AddPackageImport(alias, path string) {
	if path == "" {
		return
	}
	name := alias
	if name == "" || name == AssumedName(path) {
		name, alias = AssumedName(path), ""
	}
	key := importKey{name: name, path: path}
	if _, exists := im.imports[key]; !exists {
		im.imports[key] = models.ImportSpec{Name: alias, Path: path}
	}
}

// AddSpecs adds the imports of the annotated source files
func (im *ImportManager) AddSpecs(specs []models.ImportSpec) {
	for _, spec := range specs {
		// blank and dot imports carry no name generated code could use
		if spec.Name == "_" || spec.Name == "." {
			continue
		}
		im.AddPackageImport(spec.Name, spec.Path)
	}
}

// Has reports whether path was added under any name
func (im *ImportManager) Has(path string) bool {
	for key := range im.imports {
		if key.path == path {
			return true
		}
	}
	return false
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	if len(im.imports) == 0 {
		return ""
	}

	specs := make([]models.ImportSpec, 0, len(im.imports))
	for _, spec := range im.imports {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].Path != specs[j].Path {
			return specs[i].Path < specs[j].Path
		}
		return specs[i].Name < specs[j].Name
	})

	var std, third []string
	for _, spec := range specs {
		line := fmt.Sprintf("%q", spec.Path)
		if spec.Name != "" {
			line = spec.Name + " " + line
		}
		if isStandard(spec.Path) {
			std = append(std, line)
		} else {
			third = append(third, line)
		}
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(third) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range third {
		result.WriteString("\t" + imp + "\n")
	}
	result.WriteString(")\n")

	return result.String()
}

// AssumedName guesses the package name of an import path from its last
// element, skipping a major version suffix such as /v4 or .v3.
func AssumedName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if i := strings.LastIndex(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isStandard uses the go command's rule: standard library paths have no dot
// in their first element.
func isStandard(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
