package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModuleName(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"ok/go.mod":      "module example.com/shop\n\ngo 1.25\n",
		"quoted/go.mod":  "module \"example.com/quoted\"\n",
		"empty/go.mod":   "go 1.25\n",
		"broken/go.mod":  "module\n",
		"other/mod.txt":  "module example.com/x\n",
	})

	name, err := ParseModuleName(filepath.Join(dir, "ok", "go.mod"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", name)

	name, err = ParseModuleName(filepath.Join(dir, "quoted", "go.mod"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/quoted", name)

	_, err = ParseModuleName(filepath.Join(dir, "empty", "go.mod"))
	assert.ErrorContains(t, err, "no module declaration")

	_, err = ParseModuleName(filepath.Join(dir, "broken", "go.mod"))
	assert.Error(t, err)

	_, err = ParseModuleName(filepath.Join(dir, "other", "mod.txt"))
	assert.ErrorContains(t, err, "not a go.mod file")
}

func TestLoadGoMod(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":             "module example.com/shop\n",
		"internal/api/a.go":  "package api",
	})
	apiDir := filepath.Join(root, "internal", "api")

	mod, err := LoadGoMod(apiDir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", mod.ModulePath)
	assert.Equal(t, filepath.Join(root, "go.mod"), mod.Path)

	path, err := mod.ImportPath(apiDir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop/internal/api", path)

	path, err = mod.ImportPath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", path)

	_, err = mod.ImportPath(filepath.Dir(root))
	assert.ErrorContains(t, err, "outside module")
}

func TestFindGoModFileMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindGoModFile(dir); err == nil {
		// a go.mod above the temp directory belongs to the environment
		t.Skip("go.mod found above the temporary directory")
	}
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	assert.True(t, os.IsNotExist(err))
}
