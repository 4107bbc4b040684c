package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/relay/internal/cli"
)

func TestHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	code := cli.Run(context.Background(), []string{"--help"}, &out, &errOut)
	require.Equal(t, cli.ExitOK, code, errOut.String())

	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "generate")
	assert.Contains(t, help, "clean")
	assert.Contains(t, help, "--config")
	assert.Contains(t, help, "--verbose")
	assert.Contains(t, help, "--quiet")
}

func TestGenerateHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	code := cli.Run(context.Background(), []string{"generate", "--help"}, &out, &errOut)
	require.Equal(t, cli.ExitOK, code)

	help := out.String()
	for _, flag := range []string{"--module", "--output", "--openapi", "--server", "--relay-import"} {
		assert.Contains(t, help, flag)
	}
}

func TestCleanKeepsHandwrittenFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"api/autogen_client.go":             "// Code generated by relay. DO NOT EDIT.\n\npackage api\n",
		"nested/deep/api/autogen_client.go": "// Code generated by relay. DO NOT EDIT.\n\npackage api\n",
		"manual/autogen_client.go":          "package manual\n// Regular file\n",
		"api/client.go":                     "package api\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	var out, errOut bytes.Buffer
	code := cli.Run(context.Background(), []string{"clean", root + "/..."}, &out, &errOut)
	require.Equal(t, cli.ExitOK, code, errOut.String())
	assert.Contains(t, out.String(), "Removed 2 generated files")

	assert.NoFileExists(t, filepath.Join(root, "api", "autogen_client.go"))
	assert.NoFileExists(t, filepath.Join(root, "nested", "deep", "api", "autogen_client.go"))
	assert.FileExists(t, filepath.Join(root, "manual", "autogen_client.go"))
	assert.FileExists(t, filepath.Join(root, "api", "client.go"))

	out.Reset()
	code = cli.Run(context.Background(), []string{"clean", root + "/..."}, &out, &errOut)
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out.String(), "No generated files found")
}
