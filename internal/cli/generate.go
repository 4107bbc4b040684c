package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/relay/internal/utils"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate client implementations for annotated interfaces",
		Long: "Generate scans the given directories (default ./...) for //relay::client " +
			"interfaces and writes one client file per package.",
		Example: strings.TrimSpace(`  relay generate ./...
  relay generate ./internal/api --output client_gen.go
  relay generate --openapi api.yaml --server https://api.example.com ./...`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}

			d := utils.NewDiagnosticSystemWithWriters(utils.LevelFor(cfg.Quiet, cfg.Verbose), cmd.OutOrStdout(), cmd.ErrOrStderr())
			d.RelayHeader("Generating clients")
			d.SourcePath(strings.Join(cfg.Directories, ", "))

			generator := NewGenerator(cfg, d)
			if err := generator.Run(cmd.Context()); err != nil {
				return err
			}

			summary := generator.GetSummary()
			stats := map[string]interface{}{
				"Packages processed": summary.PackagesProcessed,
				"Clients generated":  summary.ClientsGenerated,
				"Endpoints":          summary.EndpointsFound,
				"Files written":      len(summary.GeneratedFiles),
			}
			if len(summary.RemovedFiles) > 0 {
				stats["Stale files removed"] = len(summary.RemovedFiles)
			}
			if summary.OpenAPIFile != "" {
				stats["OpenAPI document"] = summary.OpenAPIFile
			}
			d.Summary("Summary", stats)
			d.GenerationComplete()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("module", "", "Module path for package import paths (defaults to go.mod module)")
	flags.StringP("output", "o", "", "Name of the generated file in each package")
	flags.String("relay-import", "", "Import path of the relay runtime used by generated code")
	flags.String("openapi", "", "Also write an OpenAPI 3 document of all clients (.yaml, .yml or .json)")
	flags.String("openapi-title", "", "Title of the OpenAPI document")
	flags.String("openapi-version", "", "Version of the OpenAPI document")
	flags.StringSlice("server", nil, "Server URL listed in the OpenAPI document (repeatable)")
	return cmd
}
