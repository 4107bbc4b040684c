package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outputFile = "autogen_client.go"

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestSourceFileFilter(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.go":      "package main",
		"main_test.go": "package main",
		outputFile:     GeneratedHeader + "\npackage main",
		"README.md":    "# readme",
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	filter := SourceFileFilter(outputFile)
	var names []string
	for _, entry := range entries {
		if filter(filepath.Join(dir, entry.Name()), entry) {
			names = append(names, entry.Name())
		}
	}
	assert.Equal(t, []string{"main.go"}, names)
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		base      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"/...", ".", true},
		{"./api/...", "./api", true},
		{"./api", "./api", false},
	}
	for _, tt := range tests {
		base, recursive := SplitPattern(tt.pattern)
		assert.Equal(t, tt.base, base, tt.pattern)
		assert.Equal(t, tt.recursive, recursive, tt.pattern)
	}
}

func TestScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"api/client.go":          "package api",
		"api/v2/client.go":       "package v2",
		"api/only_test/a_test.go": "package only",
		"api/vendor/x/x.go":      "package x",
		"api/.hidden/h.go":       "package h",
		"api/_skip/s.go":         "package s",
		"api/gen/" + outputFile:  GeneratedHeader,
		"docs/readme.md":         "docs",
	})

	fp := NewFileProcessor(outputFile)

	dirs, err := fp.ScanDirectories([]string{filepath.Join(root, "api") + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "api"),
		filepath.Join(root, "api", "v2"),
	}, dirs)

	dirs, err = fp.ScanDirectories([]string{filepath.Join(root, "api"), filepath.Join(root, "api")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "api")}, dirs)

	_, err = fp.ScanDirectories([]string{filepath.Join(root, "missing")})
	assert.Error(t, err)

	ok, err := fp.HasGoFiles(filepath.Join(root, "docs"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		outputFile:          GeneratedHeader + "\n\npackage root\n",
		"a/" + outputFile:   GeneratedHeader + "\n\npackage a\n",
		"b/" + outputFile:   "package b\n",
		"a/c/" + outputFile: GeneratedHeader + "\n",
		"a/c/other.go":      GeneratedHeader + "\n",
	})

	fp := NewFileProcessor(outputFile)

	files, err := fp.FindGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, outputFile),
		filepath.Join(root, "a", outputFile),
		filepath.Join(root, "a", "c", outputFile),
	}, files)

	files, err = fp.FindGeneratedFiles([]string{filepath.Join(root, "a")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", outputFile)}, files)
}

func TestIsGeneratedFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"gen.go":   GeneratedHeader + "\npackage x\n",
		"hand.go":  "package x\n",
		"empty.go": "",
	})

	for name, want := range map[string]bool{"gen.go": true, "hand.go": false, "empty.go": false} {
		got, err := IsGeneratedFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := IsGeneratedFile(filepath.Join(dir, "missing.go"))
	assert.Error(t, err)
}
