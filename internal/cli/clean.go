package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/relay/internal/utils"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated client files",
		Example: strings.TrimSpace(`  relay clean ./...
  relay clean --dry-run ./internal/...`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return err
			}

			d := utils.NewDiagnosticSystemWithWriters(utils.LevelFor(cfg.Quiet, cfg.Verbose), cmd.OutOrStdout(), cmd.ErrOrStderr())
			d.RelayHeader("Cleaning generated files")

			files, err := NewCleaner(cfg.Output, dryRun).CleanGeneratedFiles(cfg.Directories)
			for _, file := range files {
				if dryRun {
					d.List("would remove %s", file)
				} else {
					d.List("removed %s", file)
				}
			}
			if err != nil {
				return err
			}
			if len(files) == 0 {
				d.Info("No generated files found")
				return nil
			}
			if !dryRun {
				d.Success("Removed %d generated files", len(files))
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Name of the generated file in each package")
	cmd.Flags().Bool("dry-run", false, "List the files without deleting them")
	return cmd
}
