package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes returned by Run
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Run executes the relay command line and reports any failure on stderr
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	verbose, _ := cmd.PersistentFlags().GetBool("verbose")
	NewDiagnosticReporter(stderr, verbose).ReportError(err)
	if stderrors.Is(err, ErrUsage) {
		return ExitUsage
	}
	return ExitError
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Generate HTTP clients from annotated Go interfaces",
		Long: "relay scans Go packages for //relay::client interfaces and writes an " +
			"implementation of each one that sends its calls over HTTP.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(c *cobra.Command, args []string) error {
			if len(args) > 0 {
				return newUsageError("unknown command %q for %q\n\n%s", args[0], c.CommandPath(), c.UsageString())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetFlagErrorFunc(flagError)

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file path (defaults to ./"+DefaultConfigFile+" when present)")
	flags.BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolP("quiet", "q", false, "Only show errors")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newCleanCmd()} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}
	return cmd
}

// flagError turns cobra flag errors into usage errors that carry the help text
func flagError(c *cobra.Command, err error) error {
	return newUsageError("%v\n\n%s", err, c.UsageString())
}

// resolveConfig merges defaults, the config file, flags and positional
// directories, in that order
func resolveConfig(cmd *cobra.Command, args []string) (Config, error) {
	cfg := DefaultConfig()
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return cfg, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		if info, err := os.Stat(DefaultConfigFile); err == nil && !info.IsDir() {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := LoadConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	overrides := []struct {
		name string
		dst  interface{}
	}{
		{"module", &cfg.Module},
		{"output", &cfg.Output},
		{"relay-import", &cfg.RelayImport},
		{"openapi", &cfg.OpenAPI.File},
		{"openapi-title", &cfg.OpenAPI.Title},
		{"openapi-version", &cfg.OpenAPI.Version},
		{"server", &cfg.OpenAPI.Servers},
		{"verbose", &cfg.Verbose},
		{"quiet", &cfg.Quiet},
	}
	for _, o := range overrides {
		if err := override(flags, o.name, o.dst); err != nil {
			return cfg, err
		}
	}
	if len(args) > 0 {
		cfg.Directories = args
	}

	cfg.Normalize()
	return cfg, cfg.Validate()
}

// override copies a flag into dst when the flag exists and was set
func override(flags *pflag.FlagSet, name string, dst interface{}) error {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return nil
	}
	var err error
	switch v := dst.(type) {
	case *string:
		*v, err = flags.GetString(name)
	case *bool:
		*v, err = flags.GetBool(name)
	case *[]string:
		*v, err = flags.GetStringSlice(name)
	default:
		err = fmt.Errorf("unsupported flag target %T for --%s", dst, name)
	}
	return err
}
