package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/relay/internal/errors"
)

// DiagnosticReporter prints generator errors with their location, context and hints
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out}
}

// ReportWarning prints a single-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints every RelayError found in err. Errors outside the
// generator's taxonomy are printed as plain messages.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var usage usageError
	if stderrors.As(err, &usage) {
		fmt.Fprintf(r.out, "Error: %s\n", usage.msg)
		return
	}

	found := collect(err)
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed")
	if len(found) > 1 {
		fmt.Fprintf(r.out, " (%d problems)", len(found))
	}
	fmt.Fprintf(r.out, "\n=============================\n\n")

	if len(found) == 0 {
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
		return
	}
	for i, re := range found {
		if len(found) > 1 {
			fmt.Fprintf(r.out, "[%d/%d] ", i+1, len(found))
		}
		r.reportRelayError(re)
	}
}

// collect flattens err into the RelayErrors it carries, in order
func collect(err error) []errors.RelayError {
	if multi, ok := err.(*errors.MultipleErrors); ok {
		var all []errors.RelayError
		for _, inner := range multi.Errors {
			all = append(all, collect(inner)...)
		}
		return all
	}
	if re, ok := err.(errors.RelayError); ok {
		return []errors.RelayError{re}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		var all []errors.RelayError
		for _, inner := range u.Unwrap() {
			all = append(all, collect(inner)...)
		}
		return all
	case interface{ Unwrap() error }:
		if inner := u.Unwrap(); inner != nil {
			return collect(inner)
		}
	}
	return nil
}

func (r *DiagnosticReporter) reportRelayError(re errors.RelayError) {
	code := re.ErrorCode()
	fmt.Fprintf(r.out, "Type: %s\n", code)

	message := re.Error()
	if base, ok := re.(*errors.BaseError); ok {
		message = base.Message
	}
	fmt.Fprintf(r.out, "Message: %s\n", message)

	if loc := re.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc)
	}
	if cause := re.Unwrap(); cause != nil {
		fmt.Fprintf(r.out, "Cause: %s\n", cause)
	}
	if ctx := re.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}
	if hints := re.Suggestions(); len(hints) > 0 {
		r.printSuggestions(hints)
	}
	if r.verbose {
		r.printErrorChain(re)
	}
	if code.IsDiagnostic() {
		fmt.Fprintf(r.out, "Annotations must start with //relay:: and sit directly above the method.\n")
	}
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) printContext(ctx map[string]interface{}) {
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), ctx[key])
	}
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
}

func (r *DiagnosticReporter) printErrorChain(re errors.RelayError) {
	cause := re.Unwrap()
	if cause == nil {
		return
	}
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; cause != nil; level++ {
		fmt.Fprintf(r.out, "    %d. %s\n", level, cause.Error())
		cause = stderrors.Unwrap(cause)
	}
}
