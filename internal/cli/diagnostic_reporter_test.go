package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/relay/internal/errors"
)

func TestReportWarning(t *testing.T) {
	var buf bytes.Buffer
	NewDiagnosticReporter(&buf, false).ReportWarning("output file is not gofmt'd")
	assert.Contains(t, buf.String(), "output file is not gofmt'd\n")
}

func TestReportRelayError(t *testing.T) {
	err := errors.New(errors.DuplicateBody, "parameter b is already the body").
		WithLocation(errors.SourceLocation{File: "api.go", Line: 12}).
		WithContext("method_name", "Post").
		WithSuggestion("Keep a single body annotation")

	var buf bytes.Buffer
	NewDiagnosticReporter(&buf, false).ReportError(err)
	out := buf.String()

	assert.Contains(t, out, "ERROR: Code Generation Failed\n")
	assert.Contains(t, out, "Type: DuplicateBody\n")
	assert.Contains(t, out, "Message: parameter b is already the body\n")
	assert.Contains(t, out, "Location: api.go:12\n")
	assert.Contains(t, out, "   Method Name: Post\n")
	assert.Contains(t, out, "   1. Keep a single body annotation\n")
	assert.Contains(t, out, "//relay::")
}

func TestReportMultipleErrors(t *testing.T) {
	multi := errors.NewMultipleErrors()
	multi.Add(errors.New(errors.DuplicateBody, "first"))
	multi.Add(errors.WrapFileSystemError("write", "api/autogen_client.go", stderrors.New("disk full")))

	var buf bytes.Buffer
	NewDiagnosticReporter(&buf, true).ReportError(fmt.Errorf("generate: %w", multi))
	out := buf.String()

	assert.Contains(t, out, "(2 problems)")
	assert.Contains(t, out, "[1/2] Type: DuplicateBody")
	assert.Contains(t, out, "[2/2] Type: FileSystemError")
	assert.Contains(t, out, "Cause: disk full")
	assert.Contains(t, out, "Error Chain:\n    1. disk full\n")
}

func TestReportPlainAndUsageErrors(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(&buf, false)

	reporter.ReportError(stderrors.New("boom"))
	assert.Contains(t, buf.String(), "Message: boom\n")

	buf.Reset()
	reporter.ReportError(newUsageError("missing %s", "directories"))
	assert.Equal(t, "Error: missing directories\n", buf.String())

	buf.Reset()
	reporter.ReportError(nil)
	assert.Empty(t, buf.String())
}

func TestUsageError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newUsageError("bad flag"))
	assert.ErrorIs(t, err, ErrUsage)
	assert.NotErrorIs(t, stderrors.New("bad flag"), ErrUsage)
}
